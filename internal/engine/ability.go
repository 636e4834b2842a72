package engine

import "github.com/suderio/dragondice/internal/data"

// UseAbility applies a catalog-defined species ability during the turn
// player's SpeciesAbilities phase. The army must field at least one unit of
// the species, the ability's predicate must hold, and the effect registers
// under the modifier caps like a spell's.
func (g *Game) UseAbility(species, ability, armyID, targetID string) ([]Event, error) {
	if p := g.seq.Phase(); p != PhaseSpeciesAbilities {
		return nil, protocolErrf("species abilities belong to their own phase, not %s", p)
	}
	army, err := g.state.Army(armyID)
	if err != nil {
		return nil, err
	}
	if army.Player != g.TurnPlayer() {
		return nil, protocolErrf("it is %s's turn, not %s's", g.TurnPlayer(), army.Player)
	}
	sp, err := g.defs.Species(species)
	if err != nil {
		return nil, err
	}
	var def *data.AbilityDefinition
	for i := range sp.Abilities {
		if sp.Abilities[i].Name == ability {
			def = &sp.Abilities[i]
			break
		}
	}
	if def == nil {
		return nil, validationErrf("species %s has no ability %q", species, ability)
	}

	units := g.state.ArmyUnits(army.ID())
	speciesUnits := make([]*Unit, 0, len(units))
	for _, u := range units {
		if u.Species == species {
			speciesUnits = append(speciesUnits, u)
		}
	}
	if len(speciesUnits) == 0 {
		return nil, ruleErrf("army %s fields no %s unit", army.ID(), species)
	}

	if def.Requires != "" {
		ctx := g.ruleContext(army.ID(), species, speciesUnits)
		ok, err := g.rules.EvalBool(def.Requires, ctx)
		if err != nil {
			return nil, validationErrf("ability %s: %v", ability, err)
		}
		if !ok {
			return nil, ruleErrf("army %s does not meet the requirements of %s", army.ID(), ability)
		}
	}

	target, err := g.abilityTarget(army, def.Effect.Target, targetID)
	if err != nil {
		return nil, err
	}
	eff, err := effectFromSpec(def.Effect, target, "ability:"+species+":"+ability, army.Player)
	if err != nil {
		return nil, err
	}
	if err := g.effects.Register(eff); err != nil {
		return nil, err
	}
	return g.emit([]Event{&EffectRegisteredEvent{Effect: eff.ID, Source: eff.Source, Target: eff.Target}}), nil
}

// abilityTarget resolves an ability's concrete target; army-targeting
// abilities default to the acting army.
func (g *Game) abilityTarget(army *Army, kind, targetID string) (EffectTarget, error) {
	switch TargetKind(kind) {
	case TargetArmy:
		if targetID == "" {
			return armyTarget(army.ID()), nil
		}
		if _, err := g.state.Army(targetID); err != nil {
			return EffectTarget{}, err
		}
		return armyTarget(targetID), nil
	case TargetUnit:
		if targetID == "" {
			return EffectTarget{}, validationErrf("the ability needs a unit target")
		}
		if _, err := g.state.Zones.Unit(targetID); err != nil {
			return EffectTarget{}, err
		}
		return unitTarget(targetID), nil
	}
	return EffectTarget{}, validationErrf("unknown target kind %q", kind)
}
