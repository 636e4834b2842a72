package command

import (
	"fmt"

	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// ExecuteDragon handles the two attacker-side dragon decisions: target
// designation when the matrix ties, and the reported dragon die faces.
func ExecuteDragon(cmd *parser.DragonCmd, g *engine.Game) (*Outcome, error) {
	if len(cmd.Designate) > 0 {
		choices := make(map[string]string, len(cmd.Designate))
		for _, a := range cmd.Designate {
			if _, dup := choices[a.Key]; dup {
				return nil, fmt.Errorf("dragon %s designated twice", a.Key)
			}
			choices[a.Key] = a.Value
		}
		return events(g.DesignateDragonTargets(choices))
	}
	faces, err := dragonFaceEntries(cmd.Faces)
	if err != nil {
		return nil, err
	}
	rerolls, err := dragonFaceEntries(cmd.Rerolls)
	if err != nil {
		return nil, err
	}
	return events(g.SubmitDragonFaces(faces, rerolls))
}

// ExecuteResponse reports the attacked army's combined response roll.
func ExecuteResponse(cmd *parser.ResponseCmd, g *engine.Game) (*Outcome, error) {
	return events(g.SubmitDragonResponse(rollEntries(cmd.Faces)))
}

// ExecuteAllocate spreads the army's response damage over the attacking
// dragons.
func ExecuteAllocate(cmd *parser.AllocateCmd, g *engine.Game) (*Outcome, error) {
	alloc := make([]engine.DragonDamage, 0, len(cmd.Damage))
	for _, p := range cmd.Damage {
		alloc = append(alloc, engine.DragonDamage{Dragon: p.Key, Points: p.Points})
	}
	return events(g.AllocateDragonDamage(alloc))
}
