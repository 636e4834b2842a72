// Package command maps parsed decisions onto engine calls. It owns the
// player-facing validation that the engine does not: checking that the
// reported actor is the turn player, converting the wire vocabulary into
// engine inputs, and rendering the read-only views.
package command

import (
	"fmt"

	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// Outcome is what a decision produced: the committed engine events and,
// for read-only commands, rendered text.
type Outcome struct {
	Events []engine.Event
	Text   string
}

// Execute dispatches one parsed decision to the engine. Save decisions are
// the session's business and are rejected here.
func Execute(dec *parser.Decision, g *engine.Game) (*Outcome, error) {
	switch {
	case dec == nil:
		return nil, fmt.Errorf("empty decision")
	case dec.Phase != nil:
		return ExecutePhase(g)
	case dec.Skip != nil:
		return ExecuteSkip(g)
	case dec.Maneuver != nil:
		return ExecuteManeuver(dec.Maneuver, g)
	case dec.Turn != nil:
		return ExecuteTurn(dec.Turn, g)
	case dec.Action != nil:
		return ExecuteAction(dec.Action, g)
	case dec.Roll != nil:
		return ExecuteRoll(dec.Roll, g)
	case dec.Saves != nil:
		return ExecuteSaves(dec.Saves, g)
	case dec.Kills != nil:
		return ExecuteKills(dec.Kills, g)
	case dec.Promote != nil:
		return ExecutePromote(dec.Promote, g)
	case dec.Cast != nil:
		return ExecuteCast(dec.Cast, g)
	case dec.Reinforce != nil:
		return ExecuteReinforce(dec.Reinforce, g)
	case dec.Retreat != nil:
		return ExecuteRetreat(dec.Retreat, g)
	case dec.Eighth != nil:
		return ExecuteEighth(dec.Eighth, g)
	case dec.Ability != nil:
		return ExecuteAbility(dec.Ability, g)
	case dec.Dragon != nil:
		return ExecuteDragon(dec.Dragon, g)
	case dec.Response != nil:
		return ExecuteResponse(dec.Response, g)
	case dec.Allocate != nil:
		return ExecuteAllocate(dec.Allocate, g)
	case dec.Abort != nil:
		return ExecuteAbort(g)
	case dec.State != nil:
		return ExecuteState(g)
	case dec.Help != nil:
		return ExecuteHelp(dec.Help, g)
	case dec.Save != nil:
		return nil, fmt.Errorf("save is handled by the session, not the engine")
	}
	return nil, fmt.Errorf("unrecognized decision")
}

// requireTurnPlayer rejects decisions reported for anyone but the player
// whose turn it is. The engine itself only sees armies, so the by: clause
// is checked here.
func requireTurnPlayer(g *engine.Game, player string) error {
	if player == "" {
		return nil
	}
	if !g.State().HasPlayer(player) {
		return fmt.Errorf("unknown player %q", player)
	}
	if turn := g.TurnPlayer(); player != turn {
		return fmt.Errorf("it is %s's turn, not %s's", turn, player)
	}
	return nil
}

func events(evs []engine.Event, err error) (*Outcome, error) {
	if err != nil {
		return nil, err
	}
	return &Outcome{Events: evs}, nil
}
