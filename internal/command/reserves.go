package command

import (
	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// ExecuteReinforce moves reserve units out to a terrain army.
func ExecuteReinforce(cmd *parser.ReinforceCmd, g *engine.Game) (*Outcome, error) {
	return events(g.Reinforce(cmd.Units, cmd.To))
}

// ExecuteRetreat pulls units from terrain armies back into the reserve.
func ExecuteRetreat(cmd *parser.RetreatCmd, g *engine.Game) (*Outcome, error) {
	return events(g.Retreat(cmd.Units))
}
