package command

import (
	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// ExecuteEighth spends one captured terrain's eighth face, or passes on
// the whole phase.
func ExecuteEighth(cmd *parser.EighthCmd, g *engine.Game) (*Outcome, error) {
	if cmd.Pass {
		return events(g.CompletePhase())
	}
	return events(g.UseEighthFace(cmd.Terrain, cmd.Unit, cmd.Target))
}
