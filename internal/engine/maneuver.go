package engine

// maneuverGrant is a won maneuver awaiting the optional terrain turn. It is
// forfeited by the phase-done signal.
type maneuverGrant struct {
	army    string
	terrain string
}

func armyTarget(armyID string) EffectTarget { return EffectTarget{Kind: TargetArmy, ID: armyID} }

func unitTarget(unitID string) EffectTarget { return EffectTarget{Kind: TargetUnit, ID: unitID} }

func unitIDs(units []*Unit) []string {
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids
}

// Maneuver resolves a march maneuver in one call: the marching army's full
// roll and, when an opposing army at the terrain contests, its counter
// roll. The mover wins ties. Winning stages a terrain-turn grant.
func (g *Game) Maneuver(armyID string, entries []RollEntry, counter []RollEntry) ([]Event, error) {
	p := g.seq.Phase()
	if p != PhaseFirstMarchManeuver && p != PhaseSecondMarchManeuver {
		return nil, protocolErrf("maneuvers belong to a march, not %s", p)
	}
	army, err := g.chooseMarchArmy(armyID)
	if err != nil {
		return nil, err
	}

	roll := &PendingRoll{
		Purpose: PurposeOf(Maneuver),
		Target:  armyTarget(army.ID()),
		Units:   unitIDs(g.state.ArmyUnits(army.ID())),
	}
	totals, err := resolvePipeline(g.defs, g.state, g.effects, roll, entries)
	if err != nil {
		return nil, err
	}

	// Both rolls must validate before any until-rerolled effect expires, so
	// a bad counter submission leaves the contest retryable.
	counterTotal := 0
	var counterRoll *PendingRoll
	if len(counter) > 0 {
		counterArmy, err := g.counterArmyOf(army, counter[0].Unit)
		if err != nil {
			return nil, err
		}
		counterRoll = &PendingRoll{
			Purpose: PurposeOf(Maneuver),
			Target:  armyTarget(counterArmy.ID()),
			Units:   unitIDs(g.state.ArmyUnits(counterArmy.ID())),
		}
		counterTotals, err := resolvePipeline(g.defs, g.state, g.effects, counterRoll, counter)
		if err != nil {
			return nil, err
		}
		counterTotal = counterTotals[Maneuver]
	}

	events := g.effects.NoteRoll(roll.Target, roll.Purpose)
	if counterRoll != nil {
		events = append(events, g.effects.NoteRoll(counterRoll.Target, counterRoll.Purpose)...)
	}

	won := totals[Maneuver] >= counterTotal
	events = append(events, &ManeuverResolvedEvent{
		Army:    army.ID(),
		Total:   totals[Maneuver],
		Counter: counterTotal,
		Won:     won,
	})
	if won {
		g.grant = &maneuverGrant{army: army.ID(), terrain: army.Terrain}
	}
	return g.emit(events), nil
}

// counterArmyOf resolves the countering army from one of its units and
// checks it may contest: an opposing army at the same terrain.
func (g *Game) counterArmyOf(mover *Army, unitID string) (*Army, error) {
	zone, err := g.state.Zones.ZoneOf(unitID)
	if err != nil {
		return nil, err
	}
	if zone.Kind != ZoneArmy {
		return nil, validationErrf("unit %s is not in an army", unitID)
	}
	counter, err := g.state.Army(zone.Player + "/" + zone.Army)
	if err != nil {
		return nil, err
	}
	if counter.Player == mover.Player {
		return nil, validationErrf("%s cannot counter-maneuver its own march", counter.Player)
	}
	if counter.Terrain != mover.Terrain {
		return nil, validationErrf("army %s is not at %s", counter.ID(), mover.Terrain)
	}
	return counter, nil
}

// TurnTerrain spends a won maneuver to turn the terrain die one face up or
// down. Reaching face 8 captures the terrain for the maneuvering army;
// turning a captured terrain down evicts its controller.
func (g *Game) TurnTerrain(terrainID, dir string) ([]Event, error) {
	if g.grant == nil {
		return nil, protocolErrf("no won maneuver to spend")
	}
	if terrainID != g.grant.terrain {
		return nil, validationErrf("the maneuver was at %s, not %s", g.grant.terrain, terrainID)
	}
	t, err := g.state.Terrain(terrainID)
	if err != nil {
		return nil, err
	}
	face := t.Face
	switch dir {
	case "up":
		face++
	case "down":
		face--
	default:
		return nil, validationErrf("terrain turns %q or %q, not %q", "up", "down", dir)
	}
	if face < 1 || face > 8 {
		return nil, validationErrf("terrain %s cannot turn %s from face %d", terrainID, dir, t.Face)
	}

	var events []Event
	if t.Face == 8 && t.Controller != "" {
		t.Controller = ""
		events = append(events, g.effects.ExpireBySource(eighthGrantSource(t.ID))...)
	}
	t.Face = face
	armyID := g.grant.army
	g.grant = nil
	events = append(events, &TerrainTurnedEvent{Terrain: t.ID, Face: face, Army: armyID})
	if face == 8 {
		t.Controller = armyID
		events = append(events, &TerrainCapturedEvent{Terrain: t.ID, Army: armyID})
		evts, err := g.registerEighthGrant(t, armyID)
		if err != nil {
			return nil, err
		}
		events = append(events, evts...)
	}
	return g.emit(events), nil
}

// registerEighthGrant activates the passive advantage some eighth faces
// carry (standing stones, vortex, castle) as a permanent effect torn down
// when control is lost.
func (g *Game) registerEighthGrant(t *Terrain, armyID string) ([]Event, error) {
	def, err := g.defs.Terrain(t.Def)
	if err != nil {
		return nil, err
	}
	if def.Grant == nil {
		return nil, nil
	}
	a, err := g.state.Army(armyID)
	if err != nil {
		return nil, err
	}
	eff, err := effectFromSpec(*def.Grant, armyTarget(armyID), eighthGrantSource(t.ID), a.Player)
	if err != nil {
		return nil, err
	}
	eff.Duration = DurationPermanent
	if err := g.effects.Register(eff); err != nil {
		return nil, err
	}
	return []Event{&EffectRegisteredEvent{Effect: eff.ID, Source: eff.Source, Target: eff.Target}}, nil
}
