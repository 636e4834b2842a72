package command

import (
	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// ExecuteAbility invokes a species ability for one of the turn player's
// armies during the species abilities phase.
func ExecuteAbility(cmd *parser.AbilityCmd, g *engine.Game) (*Outcome, error) {
	return events(g.UseAbility(cmd.Species, cmd.Name, cmd.Army, cmd.Target))
}
