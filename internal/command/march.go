package command

import (
	"fmt"

	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// ExecutePhase signals that the turn player is done with the current phase.
func ExecutePhase(g *engine.Game) (*Outcome, error) {
	return events(g.CompletePhase())
}

// ExecuteSkip declines the maneuver step of a march. Outside a maneuver
// phase the decision is meaningless and rejected rather than silently
// advancing the game.
func ExecuteSkip(g *engine.Game) (*Outcome, error) {
	switch g.Phase() {
	case engine.PhaseFirstMarchManeuver, engine.PhaseSecondMarchManeuver:
		return events(g.CompletePhase())
	}
	return nil, fmt.Errorf("there is no maneuver to skip during %s", g.Phase())
}

// ExecuteManeuver reports the marching army's maneuver roll, with any
// counter-maneuver roll from an opposing army at the same terrain.
func ExecuteManeuver(cmd *parser.ManeuverCmd, g *engine.Game) (*Outcome, error) {
	if err := requireTurnPlayer(g, cmd.Player); err != nil {
		return nil, err
	}
	return events(g.Maneuver(cmd.Army, rollEntries(cmd.Faces), rollEntries(cmd.Counter)))
}

// ExecuteTurn turns a terrain die one step after a won maneuver.
func ExecuteTurn(cmd *parser.TurnCmd, g *engine.Game) (*Outcome, error) {
	return events(g.TurnTerrain(cmd.Terrain, cmd.Dir))
}
