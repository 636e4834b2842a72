package engine

import "strings"

// UseEighthFace exercises a controlled eighth face's subtype effect during
// the turn player's EighthFace phase, once per terrain per turn. The unit
// and target arguments are read per subtype: the city recruits unit or
// promotes unit with target, the dragon lair summons dragon unit to terrain
// target, the grove returns unit from the BUA, the temple buries the
// opposing unit, and the tower opens a missile action against target.
func (g *Game) UseEighthFace(terrainID, unitID, targetID string) ([]Event, error) {
	if g.action != nil {
		return nil, protocolErrf("an action is in progress; finish or abort it first")
	}
	if p := g.seq.Phase(); p != PhaseEighthFace {
		return nil, protocolErrf("eighth faces are used in the eighth face phase, not %s", p)
	}
	t, err := g.state.Terrain(terrainID)
	if err != nil {
		return nil, err
	}
	if !t.EighthActive() {
		return nil, validationErrf("terrain %s is not on its eighth face", terrainID)
	}
	army, err := g.state.Army(t.Controller)
	if err != nil || army.Player != g.TurnPlayer() {
		return nil, validationErrf("%s does not control the eighth face of %s", g.TurnPlayer(), terrainID)
	}
	if g.seq.EighthUsed[terrainID] {
		return nil, protocolErrf("the eighth face of %s was already used this turn", terrainID)
	}
	def, err := g.defs.Terrain(t.Def)
	if err != nil {
		return nil, err
	}

	var events []Event
	switch def.EighthFace {
	case "city":
		events, err = g.useCity(army, unitID, targetID)
	case "dragon_lair":
		events, err = g.useDragonLair(army.Player, unitID, targetID)
	case "grove":
		events, err = g.useGrove(army.Player, unitID)
	case "temple":
		events, err = g.useTemple(army.Player, unitID)
	case "tower":
		return nil, g.useTower(t, army, targetID)
	default:
		return nil, validationErrf("the %s of %s works on its own; nothing to use", def.EighthFace, terrainID)
	}
	if err != nil {
		return nil, err
	}
	g.seq.EighthUsed[terrainID] = true
	return g.emit(events), nil
}

// useCity recruits a 1-health unit from the controller's DUA, or promotes
// one army unit when a replacement is named.
func (g *Game) useCity(army *Army, unitID, targetID string) ([]Event, error) {
	if unitID == "" {
		return nil, validationErrf("the city needs a unit to recruit or promote")
	}
	batch := g.state.Zones.Begin()
	if targetID == "" {
		u, err := g.state.Zones.Unit(unitID)
		if err != nil {
			return nil, err
		}
		if u.Player != army.Player {
			return nil, validationErrf("unit %s belongs to %s", unitID, u.Player)
		}
		if u.Health != 1 {
			return nil, ruleErrf("the city recruits 1-health units; %s has %d", unitID, u.Health)
		}
		if err := batch.Recruit(unitID, ArmyZone(army.Player, army.Name)); err != nil {
			batch.Discard()
			return nil, err
		}
		return batch.Commit(), nil
	}
	pair := []PromotionPair{{Unit: unitID, Replacement: targetID}}
	if err := g.stagePromotions(batch, army, pair); err != nil {
		batch.Discard()
		return nil, err
	}
	return batch.Commit(), nil
}

// useDragonLair summons one of the player's pooled dragons to any terrain.
func (g *Game) useDragonLair(player, dragonID, destID string) ([]Event, error) {
	if dragonID == "" || destID == "" {
		return nil, validationErrf("the dragon lair needs a dragon and a destination terrain")
	}
	d, ok := g.state.Dragons[dragonID]
	if !ok {
		return nil, validationErrf("no dragon %q", dragonID)
	}
	if d.Summoner != player {
		return nil, validationErrf("dragon %s answers to %s", dragonID, d.Summoner)
	}
	if d.Terrain != "" {
		return nil, validationErrf("dragon %s is already at %s", dragonID, d.Terrain)
	}
	if _, err := g.state.Terrain(destID); err != nil {
		return nil, err
	}
	d.Terrain = destID
	return []Event{&DragonSummonedEvent{Dragon: dragonID, Terrain: destID}}, nil
}

// useGrove returns one of the player's buried units to the DUA.
func (g *Game) useGrove(player, unitID string) ([]Event, error) {
	if unitID == "" {
		return nil, validationErrf("the grove needs a buried unit")
	}
	zone, err := g.state.Zones.ZoneOf(unitID)
	if err != nil {
		return nil, err
	}
	if zone != PlayerZone(ZoneBUA, player) {
		return nil, validationErrf("unit %s is not in %s's BUA (%s)", unitID, player, zone)
	}
	batch := g.state.Zones.Begin()
	if err := batch.Move(unitID, PlayerZone(ZoneDUA, player)); err != nil {
		batch.Discard()
		return nil, err
	}
	return batch.Commit(), nil
}

// useTemple forces an opposing DUA unit into its owner's BUA.
func (g *Game) useTemple(player, unitID string) ([]Event, error) {
	if unitID == "" {
		return nil, validationErrf("the temple needs an opposing unit to bury")
	}
	u, err := g.state.Zones.Unit(unitID)
	if err != nil {
		return nil, err
	}
	if u.Player == player {
		return nil, validationErrf("the temple buries an opposing unit, not your own")
	}
	batch := g.state.Zones.Begin()
	if err := batch.Bury(unitID); err != nil {
		batch.Discard()
		return nil, err
	}
	return batch.Commit(), nil
}

// useTower opens a missile action against any army, or against a reserve
// named "<player>/reserve". Against a reserve only non-ID results count, so
// the attack roll suppresses ID faces.
func (g *Game) useTower(t *Terrain, army *Army, targetID string) error {
	if targetID == "" {
		return validationErrf("the tower needs a target")
	}
	st := &actionState{kind: ActionMissile, player: army.Player, army: army, tower: t.ID, step: awaitAttackRoll}
	noID := false
	if player, ok := reserveTargetOf(targetID); ok {
		if player == army.Player {
			return validationErrf("%s cannot attack its own reserve", army.Player)
		}
		units := g.state.Zones.UnitsIn(PlayerZone(ZoneReserve, player))
		if len(units) == 0 {
			return &EmptyArmyError{Player: player, Army: "reserve"}
		}
		st.targetZone = PlayerZone(ZoneReserve, player)
		noID = true
	} else {
		target, err := g.state.Army(targetID)
		if err != nil {
			return err
		}
		if target.Player == army.Player {
			return validationErrf("%s cannot attack its own army", army.Player)
		}
		if len(g.state.ArmyUnits(target.ID())) == 0 {
			return validationErrf("army %s has no units to attack", target.ID())
		}
		st.target = target
		st.targetZone = ArmyZone(target.Player, target.Name)
	}
	st.roll = &PendingRoll{
		Purpose: PurposeOf(Missile),
		Target:  armyTarget(army.ID()),
		Units:   unitIDs(g.state.ArmyUnits(army.ID())),
		NoID:    noID,
	}
	g.action = st
	g.seq.EighthUsed[t.ID] = true
	return nil
}

// reserveTargetOf recognizes the "<player>/reserve" target form.
func reserveTargetOf(id string) (string, bool) {
	player, ok := strings.CutSuffix(id, "/reserve")
	return player, ok && player != ""
}
