package command

import (
	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// ExecuteCast spends the magic results of a resolved magic action on
// spells. "cast none" forfeits the points and closes the action.
func ExecuteCast(cmd *parser.CastCmd, g *engine.Game) (*Outcome, error) {
	return events(g.CastSpells(spellCasts(cmd.Spells)))
}
