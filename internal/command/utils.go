package command

import (
	"github.com/suderio/dragondice/internal/engine"
	"github.com/suderio/dragondice/internal/parser"
)

// rollEntries converts parsed unit=icon pairs into engine roll entries.
func rollEntries(faces []*parser.FacePair) []engine.RollEntry {
	if len(faces) == 0 {
		return nil
	}
	out := make([]engine.RollEntry, 0, len(faces))
	for _, f := range faces {
		out = append(out, engine.RollEntry{Unit: f.Unit, Icon: f.Icon, Choice: f.Choice})
	}
	return out
}

// promotionPairs converts parsed unit=replacement pairs. A "promote none"
// decision parses to an empty list.
func promotionPairs(pairs []*parser.PromotePair) []engine.PromotionPair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]engine.PromotionPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, engine.PromotionPair{Unit: p.Unit, Replacement: p.Replacement})
	}
	return out
}

// spellCasts converts parsed spell arguments. The optional =target names
// the unit or army the spell lands on; spells without one default in the
// engine.
func spellCasts(spells []*parser.SpellArg) []engine.SpellCast {
	if len(spells) == 0 {
		return nil
	}
	out := make([]engine.SpellCast, 0, len(spells))
	for _, s := range spells {
		out = append(out, engine.SpellCast{Spell: s.Spell, Target: s.Target})
	}
	return out
}

// dragonFaceEntries converts dragon=face assignments, validating each face
// name before anything reaches the engine.
func dragonFaceEntries(assigns []*parser.Assignment) ([]engine.DragonFaceEntry, error) {
	if len(assigns) == 0 {
		return nil, nil
	}
	out := make([]engine.DragonFaceEntry, 0, len(assigns))
	for _, a := range assigns {
		face, err := engine.ParseDragonFace(a.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, engine.DragonFaceEntry{Dragon: a.Key, Face: face})
	}
	return out, nil
}
