package engine

// actionStep sequences the staged calls of one action.
type actionStep int

const (
	awaitAttackRoll actionStep = iota
	awaitSaveRoll
	awaitKills
	awaitPromotions
	awaitSpells
)

// actionState is one in-flight action. Zone mutations stage on batch and
// commit only when the action fully resolves; aborting discards them.
type actionState struct {
	kind       ActionKind
	player     string
	army       *Army // nil for reserve magic
	reserve    bool
	tower      string // terrain id when fired from a tower eighth face
	target     *Army  // nil when the defender is a reserve
	targetZone Zone
	step       actionStep
	roll       *PendingRoll
	attack     int
	saves      int
	net        int
	required   int
	points     int
	batch      *Batch
	killed     []string
}

// actorID names the acting group as an effect target id.
func (a *actionState) actorID() string {
	if a.reserve {
		return a.player + "/reserve"
	}
	return a.army.ID()
}

// targetID names the defending group as an effect target id.
func (a *actionState) targetID() string {
	if a.target != nil {
		return a.target.ID()
	}
	if a.targetZone.Kind == ZoneReserve {
		return a.targetZone.Player + "/reserve"
	}
	return ""
}

// SpellCast is one requested casting: the spell and its concrete target
// (army id or unit id, empty for the casting group itself).
type SpellCast struct {
	Spell  string
	Target string
}

// BeginAction opens a melee, missile or magic action for the acting army
// and stages the attack roll. The literal army "reserve" is the reserve
// magic action, legal once per turn during the reserves phase.
func (g *Game) BeginAction(kind ActionKind, armyID, targetID string) ([]Event, error) {
	if g.action != nil {
		return nil, protocolErrf("an action is already in progress")
	}
	if g.sorties != nil {
		return nil, protocolErrf("dragons attack before any action")
	}
	switch kind {
	case ActionMelee, ActionMissile, ActionMagic:
	default:
		return nil, validationErrf("cannot begin a %q action", kind)
	}

	if armyID == "reserve" {
		return g.beginReserveMagic(kind, targetID)
	}

	p := g.seq.Phase()
	if p != PhaseFirstMarchAction && p != PhaseSecondMarchAction {
		return nil, protocolErrf("actions belong to a march, not %s", p)
	}
	army, err := g.chooseMarchArmy(armyID)
	if err != nil {
		return nil, err
	}
	if err := g.checkActionLegality(kind, army); err != nil {
		return nil, err
	}

	st := &actionState{kind: kind, player: army.Player, army: army, step: awaitAttackRoll}
	if kind == ActionMagic {
		if targetID != "" {
			return nil, validationErrf("magic actions pick targets per spell, not up front")
		}
	} else {
		target, err := g.actionTarget(army, targetID)
		if err != nil {
			return nil, err
		}
		st.target = target
		st.targetZone = ArmyZone(target.Player, target.Name)
	}
	st.roll = &PendingRoll{
		Purpose: PurposeOf(kind.result()),
		Target:  armyTarget(army.ID()),
		Units:   unitIDs(g.state.ArmyUnits(army.ID())),
	}
	g.action = st
	return nil, nil
}

// beginReserveMagic opens the once-per-turn magic action of the units held
// in reserve.
func (g *Game) beginReserveMagic(kind ActionKind, targetID string) ([]Event, error) {
	if kind != ActionMagic {
		return nil, validationErrf("a reserve may only cast magic")
	}
	p := g.seq.Phase()
	if p != PhaseReservesReinforce && p != PhaseReservesRetreat {
		return nil, protocolErrf("reserve magic belongs to the reserves phase, not %s", p)
	}
	if g.seq.ReserveCast {
		return nil, protocolErrf("the reserve already cast this turn")
	}
	if targetID != "" {
		return nil, validationErrf("magic actions pick targets per spell, not up front")
	}
	player := g.TurnPlayer()
	units := g.state.Zones.UnitsIn(PlayerZone(ZoneReserve, player))
	if len(units) == 0 {
		return nil, &EmptyArmyError{Player: player, Army: "reserve"}
	}
	st := &actionState{kind: kind, player: player, reserve: true, step: awaitAttackRoll}
	st.roll = &PendingRoll{
		Purpose: PurposeOf(Magic),
		Target:  armyTarget(st.actorID()),
		Units:   unitIDs(units),
	}
	g.action = st
	g.seq.ReserveCast = true
	return nil, nil
}

// checkActionLegality applies the terrain face rules: the current face
// names the allowed action, an eighth-face controller acts freely, and an
// army contesting another player's eighth face may only melee.
func (g *Game) checkActionLegality(kind ActionKind, army *Army) error {
	t, err := g.state.Terrain(army.Terrain)
	if err != nil {
		return err
	}
	if t.EighthActive() {
		if t.Controller == army.ID() {
			return nil
		}
		controller, err := g.state.Army(t.Controller)
		if err == nil && controller.Player != army.Player && kind != ActionMelee {
			return validationErrf("%s holds the eighth face of %s; only melee may contest it", controller.ID(), t.ID)
		}
		return nil
	}
	def, err := g.defs.Terrain(t.Def)
	if err != nil {
		return err
	}
	if t.Face < 1 || t.Face > len(def.Faces) {
		return validationErrf("terrain %s face %d has no action", t.ID, t.Face)
	}
	if allowed := def.Faces[t.Face-1]; string(kind) != allowed {
		return validationErrf("terrain %s shows face %d: %s actions only", t.ID, t.Face, allowed)
	}
	return nil
}

// actionTarget validates the defender of a melee or missile action: an
// opposing army with units at the same terrain.
func (g *Game) actionTarget(army *Army, targetID string) (*Army, error) {
	if targetID == "" {
		return nil, validationErrf("the action needs a target army")
	}
	target, err := g.state.Army(targetID)
	if err != nil {
		return nil, err
	}
	if target.Player == army.Player {
		return nil, validationErrf("%s cannot attack its own army", army.Player)
	}
	if target.Terrain != army.Terrain {
		return nil, validationErrf("army %s is at %s, not %s", target.ID(), target.Terrain, army.Terrain)
	}
	if len(g.state.ArmyUnits(target.ID())) == 0 {
		return nil, validationErrf("army %s has no units to attack", target.ID())
	}
	return target, nil
}

// SubmitAttackRoll reports the acting army's roll. Melee and missile move
// on to the defender's saves (skipped when an effect forbids them); magic
// banks the results as points to spend on spells.
func (g *Game) SubmitAttackRoll(entries []RollEntry) ([]Event, error) {
	st := g.action
	if st == nil || st.step != awaitAttackRoll {
		return nil, protocolErrf("no attack roll is awaited")
	}
	totals, err := resolvePipeline(g.defs, g.state, g.effects, st.roll, entries)
	if err != nil {
		return nil, err
	}
	events := g.effects.NoteRoll(st.roll.Target, st.roll.Purpose)

	if st.kind == ActionMagic {
		st.points = totals[Magic]
		st.roll = nil
		st.step = awaitSpells
		return g.emit(events), nil
	}

	st.attack = totals[st.kind.result()]
	roster := g.saveRoster(st.targetZone)
	if g.effects.SavesForbidden(armyTarget(st.targetID())) || len(roster) == 0 {
		st.saves = 0
		st.roll = nil
		return g.emit(append(events, g.settleDamage()...)), nil
	}
	st.roll = &PendingRoll{
		Purpose: PurposeOf(Save),
		Target:  armyTarget(st.targetID()),
		Units:   roster,
	}
	st.step = awaitSaveRoll
	return g.emit(events), nil
}

// saveRoster lists the defenders entitled to a save roll. A unit under an
// active no-save effect sits the roll out; the rest of the army still rolls.
func (g *Game) saveRoster(zone Zone) []string {
	var ids []string
	for _, u := range g.state.Zones.UnitsIn(zone) {
		if g.effects.SavesForbidden(unitTarget(u.ID)) {
			continue
		}
		ids = append(ids, u.ID)
	}
	return ids
}

// SubmitSaveRoll reports the defender's save roll and fixes the net damage.
// During a dragon attack it reports the fire breath victims' bury saves.
func (g *Game) SubmitSaveRoll(entries []RollEntry) ([]Event, error) {
	if g.sorties != nil && !g.sorties.done() {
		return g.submitBreathSaves(entries)
	}
	st := g.action
	if st == nil || st.step != awaitSaveRoll {
		return nil, protocolErrf("no save roll is awaited")
	}
	totals, err := resolvePipeline(g.defs, g.state, g.effects, st.roll, entries)
	if err != nil {
		return nil, err
	}
	events := g.effects.NoteRoll(st.roll.Target, st.roll.Purpose)
	st.saves = totals[Save]
	st.roll = nil
	return g.emit(append(events, g.settleDamage()...)), nil
}

// settleDamage computes net damage and either finishes a bloodless action
// or opens the kill selection.
func (g *Game) settleDamage() []Event {
	st := g.action
	st.net = st.attack - st.saves
	if st.net <= 0 {
		st.net = 0
		return g.finishAction(nil)
	}
	st.required = killRequirement(g.state.Zones.UnitsIn(st.targetZone), st.net)
	st.batch = g.state.Zones.Begin()
	st.step = awaitKills
	return nil
}

// SubmitKills reports the defender's chosen casualties. Their summed health
// must cover the net damage exactly when possible and by the minimal
// overshoot otherwise. During a dragon attack it covers breath and the
// simultaneous net damage.
func (g *Game) SubmitKills(ids []string) ([]Event, error) {
	if g.sorties != nil && !g.sorties.done() {
		return g.sortieKills(ids)
	}
	st := g.action
	if st == nil || st.step != awaitKills {
		return nil, protocolErrf("no kill selection is awaited")
	}
	if err := g.stageKills(st.batch, st.targetZone, st.targetID(), ids, st.net, st.required); err != nil {
		return nil, err
	}
	st.killed = ids
	st.step = awaitPromotions
	return nil, nil
}

// stageKills validates a casualty selection against a required cover and
// stages the kills, honoring any active redirect on the defending group.
func (g *Game) stageKills(batch *Batch, zone Zone, defenderID string, ids []string, net, required int) error {
	seen := make(map[string]bool, len(ids))
	sum := 0
	for _, id := range ids {
		if seen[id] {
			return validationErrf("unit %s selected twice", id)
		}
		seen[id] = true
		z, err := batch.zoneOf(id)
		if err != nil {
			return err
		}
		if z != zone {
			return validationErrf("unit %s is not in %s", id, zone)
		}
		u, _ := g.state.Zones.Unit(id)
		sum += u.Health
	}
	if sum != required {
		if sum < net {
			return validationErrf("selected health %d does not cover %d damage", sum, net)
		}
		return validationErrf("selected health %d; the damage requires exactly %d", sum, required)
	}
	dest := ZoneDUA
	if redirect, ok := g.effects.KillRedirect(defenderID); ok {
		dest = redirect
	}
	for _, id := range ids {
		u, _ := g.state.Zones.Unit(id)
		if err := batch.Kill(id, PlayerZone(dest, u.Player)); err != nil {
			return err
		}
	}
	return nil
}

// SubmitPromotions reports the acting player's promotion batch after a kill
// and commits the whole action. An empty batch declines. During a dragon
// attack it covers the treasure grants and the post-slaying reward.
func (g *Game) SubmitPromotions(pairs []PromotionPair) ([]Event, error) {
	if g.sorties != nil && !g.sorties.done() {
		return g.sortiePromotions(pairs)
	}
	st := g.action
	if st == nil || st.step != awaitPromotions {
		return nil, protocolErrf("no promotion is awaited")
	}
	if err := g.stagePromotions(st.batch, st.army, pairs); err != nil {
		return nil, err
	}
	return g.emit(g.finishAction(st.batch.Commit())), nil
}

// CastSpells spends a magic roll's points. The whole list must validate
// before any effect registers: total cost within points, each spell's
// element available to the casting group, its predicate satisfied, and its
// effect within the modifier caps.
func (g *Game) CastSpells(casts []SpellCast) ([]Event, error) {
	st := g.action
	if st == nil || st.step != awaitSpells {
		return nil, protocolErrf("no spell casting is awaited")
	}
	units := g.castingUnits()
	elements := g.castingElements(units)

	cost := 0
	staged := make([]*Effect, 0, len(casts))
	castEvents := make([]Event, 0, len(casts))
	for _, cast := range casts {
		def, err := g.defs.Spell(cast.Spell)
		if err != nil {
			return nil, err
		}
		cost += def.Cost
		if cost > st.points {
			return nil, ruleErrf("%d magic points cannot pay %d", st.points, cost)
		}
		if !elements[def.Element] {
			return nil, ruleErrf("no %s element in the casting group for %s", def.Element, def.ID)
		}
		if def.Requires != "" {
			ctx := g.ruleContext(st.actorID(), uniformSpecies(units), units)
			ok, err := g.rules.EvalBool(def.Requires, ctx)
			if err != nil {
				return nil, validationErrf("spell %s: %v", def.ID, err)
			}
			if !ok {
				return nil, ruleErrf("the casting group does not meet the requirements of %s", def.ID)
			}
		}
		target, err := g.castTarget(def.Effect.Target, cast.Target)
		if err != nil {
			return nil, err
		}
		eff, err := effectFromSpec(def.Effect, target, "spell:"+def.ID, st.player)
		if err != nil {
			return nil, err
		}
		if err := g.effects.Check(eff, staged...); err != nil {
			return nil, err
		}
		staged = append(staged, eff)
		castEvents = append(castEvents, &SpellCastEvent{Spell: def.ID, Caster: st.actorID(), Target: cast.Target})
	}

	// The end-of-action sweep runs before the new effects register, so a
	// spell may outlive the action that cast it.
	g.action = nil
	events := g.effects.ExpireAtActionEnd(g.state.dissolveCheck)
	events = append(events, g.eighthLossSweep()...)
	for i, eff := range staged {
		if err := g.effects.Register(eff); err != nil {
			return nil, err
		}
		events = append(events, castEvents[i], &EffectRegisteredEvent{Effect: eff.ID, Source: eff.Source, Target: eff.Target})
	}
	events = append(events, &ActionResolvedEvent{
		Kind:   ActionMagic,
		Army:   st.actorID(),
		Attack: st.points,
	})
	return g.emit(events), nil
}

// castingUnits returns the units whose faces rolled the magic points.
func (g *Game) castingUnits() []*Unit {
	st := g.action
	if st.reserve {
		return g.state.Zones.UnitsIn(PlayerZone(ZoneReserve, st.player))
	}
	return g.state.ArmyUnits(st.army.ID())
}

// castingElements lists the elements the casting group may draw on: its
// species' elements, plus the terrain's own when the group holds the
// eighth face.
func (g *Game) castingElements(units []*Unit) map[string]bool {
	out := make(map[string]bool)
	for _, el := range g.groupElements(units) {
		out[el] = true
	}
	st := g.action
	if st.army != nil {
		if t, err := g.state.Terrain(st.army.Terrain); err == nil && t.EighthActive() && t.Controller == st.army.ID() {
			for _, el := range t.Elements {
				out[string(el)] = true
			}
		}
	}
	return out
}

// castTarget resolves a spell's concrete target. Army-targeting spells
// default to the casting group.
func (g *Game) castTarget(kind, targetID string) (EffectTarget, error) {
	switch TargetKind(kind) {
	case TargetArmy:
		if targetID == "" {
			return armyTarget(g.action.actorID()), nil
		}
		if targetID != g.action.actorID() {
			if _, err := g.state.Army(targetID); err != nil {
				return EffectTarget{}, err
			}
		}
		return armyTarget(targetID), nil
	case TargetUnit:
		if targetID == "" {
			return EffectTarget{}, validationErrf("the spell needs a unit target")
		}
		if _, err := g.state.Zones.Unit(targetID); err != nil {
			return EffectTarget{}, err
		}
		return unitTarget(targetID), nil
	}
	return EffectTarget{}, validationErrf("unknown target kind %q", kind)
}

// AbortAction discards an in-flight action; staged mutations never touch
// the zone store. An aborted tower shot may be retaken.
func (g *Game) AbortAction() error {
	if g.action == nil {
		return protocolErrf("no action to abort")
	}
	if g.action.batch != nil {
		g.action.batch.Discard()
	}
	if g.action.tower != "" {
		delete(g.seq.EighthUsed, g.action.tower)
	}
	g.action = nil
	return nil
}

// finishAction closes the current action: records the outcome, sweeps
// end-of-action expiries and dissolved armies, and rechecks eighth-face
// control.
func (g *Game) finishAction(committed []Event) []Event {
	st := g.action
	events := committed
	attack := st.attack
	if st.kind == ActionMagic {
		attack = st.points
	}
	events = append(events, &ActionResolvedEvent{
		Kind:   st.kind,
		Army:   st.actorID(),
		Target: st.targetID(),
		Attack: attack,
		Saves:  st.saves,
		Net:    st.net,
	})
	g.action = nil
	events = append(events, g.effects.ExpireAtActionEnd(g.state.dissolveCheck)...)
	events = append(events, g.eighthLossSweep()...)
	return events
}

// killRequirement is the smallest total health any subset of the army can
// lose while covering the net damage. It equals net when an exact cover
// exists; otherwise it is the minimal overshoot.
func killRequirement(units []*Unit, net int) int {
	total := 0
	for _, u := range units {
		total += u.Health
	}
	if net >= total {
		return total
	}
	reachable := make([]bool, total+1)
	reachable[0] = true
	for _, u := range units {
		for s := total; s >= u.Health; s-- {
			if reachable[s-u.Health] {
				reachable[s] = true
			}
		}
	}
	for s := net; s <= total; s++ {
		if reachable[s] {
			return s
		}
	}
	return total
}
