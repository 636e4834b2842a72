package command

import (
	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// ExecuteAction opens a melee, missile or magic action for the named army.
func ExecuteAction(cmd *parser.ActionCmd, g *engine.Game) (*Outcome, error) {
	if err := requireTurnPlayer(g, cmd.Player); err != nil {
		return nil, err
	}
	kind, err := engine.ParseActionKind(cmd.Kind)
	if err != nil {
		return nil, err
	}
	return events(g.BeginAction(kind, cmd.Army, cmd.Target))
}

// ExecuteRoll reports the attack roll the engine is waiting on.
func ExecuteRoll(cmd *parser.RollCmd, g *engine.Game) (*Outcome, error) {
	return events(g.SubmitAttackRoll(rollEntries(cmd.Faces)))
}

// ExecuteSaves reports the defending roll. During a dragon attack the same
// decision carries the breath bury saves.
func ExecuteSaves(cmd *parser.SavesCmd, g *engine.Game) (*Outcome, error) {
	return events(g.SubmitSaveRoll(rollEntries(cmd.Faces)))
}

// ExecuteKills names the units the defender removes to cover net damage.
func ExecuteKills(cmd *parser.KillsCmd, g *engine.Game) (*Outcome, error) {
	return events(g.SubmitKills(cmd.Units))
}

// ExecutePromote reports the promotion choices a kill or treasure earned,
// or declines them.
func ExecutePromote(cmd *parser.PromoteCmd, g *engine.Game) (*Outcome, error) {
	return events(g.SubmitPromotions(promotionPairs(cmd.Pairs)))
}

// ExecuteAbort cancels the staged action before any roll resolves.
func ExecuteAbort(g *engine.Game) (*Outcome, error) {
	if err := g.AbortAction(); err != nil {
		return nil, err
	}
	return &Outcome{Text: "action aborted"}, nil
}
