package engine

import "sort"

// dragonStep sequences one terrain's dragon attack.
type dragonStep int

const (
	awaitDesignations dragonStep = iota
	awaitDragonFaces
	awaitBreathKills
	awaitBreathSaves
	awaitTreasure
	awaitResponse
	awaitAllocation
	awaitNetKills
	awaitSlainPromotions
	sortieDone
)

// DragonFaceEntry is one player-reported dragon die face.
type DragonFaceEntry struct {
	Dragon string
	Face   DragonFace
}

// DragonDamage allocates part of the army's response damage to one dragon.
type DragonDamage struct {
	Dragon string
	Points int
}

// attackRecord accumulates one dragon's rolled results. Chained faces add
// points only; their side effects never trigger.
type attackRecord struct {
	dragon *Dragon
	target string // dragon id, or "army"
	damage int
	breath int
	belly  bool
	winged bool
}

// sortie is the dragon attack at one terrain. Breath resolves and commits
// immediately; all other damage applies simultaneously at the end.
type sortie struct {
	terrain     string
	army        *Army
	dragons     []*Dragon
	step        dragonStep
	order       []string
	attacks     map[string]*attackRecord
	ambiguous   map[string][]string
	fire        bool
	treasures   int
	breath      int
	breathReq   int
	victims     []string
	roll        *PendingRoll
	response    RollTotals
	allocation  map[string]int
	incoming    map[string]int
	netDamage   int
	required    int
	batch       *Batch
	sideEffects []Event
}

// dragonPhase walks the terrains owed a dragon attack, in sorted order.
type dragonPhase struct {
	sorties []*sortie
	idx     int
}

func (dp *dragonPhase) done() bool { return dp.idx >= len(dp.sorties) }

func (dp *dragonPhase) current() *sortie {
	if dp.done() {
		return nil
	}
	return dp.sorties[dp.idx]
}

func (dp *dragonPhase) awaitedRoll() *PendingRoll {
	if s := dp.current(); s != nil {
		return s.roll
	}
	return nil
}

// beginDragonPhase collects the terrains where the turn player's armies
// face dragons. It reports false when the phase has nothing to do.
func (g *Game) beginDragonPhase() bool {
	player := g.TurnPlayer()
	var sorties []*sortie
	for _, terrainID := range sortedTerrainIDs(g.state) {
		army := g.armyAtTerrain(player, terrainID)
		if army == nil || len(g.state.ArmyUnits(army.ID())) == 0 {
			continue
		}
		dragons := g.state.DragonsAt(terrainID)
		if len(dragons) == 0 {
			continue
		}
		sorties = append(sorties, g.newSortie(terrainID, army, dragons))
	}
	if len(sorties) == 0 {
		return false
	}
	g.sorties = &dragonPhase{sorties: sorties}
	return true
}

// newSortie works out each dragon's target by the element matrix. Dragons
// with more than one legal dragon target wait for their owner's secret
// designation.
func (g *Game) newSortie(terrainID string, army *Army, dragons []*Dragon) *sortie {
	s := &sortie{
		terrain:    terrainID,
		army:       army,
		dragons:    dragons,
		attacks:    make(map[string]*attackRecord, len(dragons)),
		ambiguous:  make(map[string][]string),
		allocation: make(map[string]int),
	}
	for _, d := range dragons {
		s.order = append(s.order, d.ID)
		rec := &attackRecord{dragon: d, target: "army"}
		candidates := dragonCandidates(d, dragons)
		switch len(candidates) {
		case 0:
		case 1:
			rec.target = candidates[0]
		default:
			s.ambiguous[d.ID] = candidates
		}
		s.attacks[d.ID] = rec
	}
	sort.Strings(s.order)
	s.step = awaitDragonFaces
	if len(s.ambiguous) > 0 {
		s.step = awaitDesignations
	}
	return s
}

// dragonCandidates applies the element-compatibility matrix: the dragon
// targets it must prefer over the army.
func dragonCandidates(att *Dragon, present []*Dragon) []string {
	var out []string
	for _, o := range present {
		if o.ID == att.ID {
			continue
		}
		switch att.Kind {
		case DragonElemental:
			if o.Kind == DragonElemental && !sharesElement(att, o) {
				out = append(out, o.ID)
			}
		case DragonHybrid:
			if o.Kind == DragonHybrid && !sameElements(att, o) {
				out = append(out, o.ID)
			}
		case DragonIvory:
		case DragonIvoryHybrid:
			if (o.Kind == DragonElemental || o.Kind == DragonHybrid) && !sharesElement(att, o) {
				out = append(out, o.ID)
			}
		case DragonWhite:
			if o.Kind == DragonElemental || o.Kind == DragonHybrid || o.Kind == DragonIvoryHybrid {
				out = append(out, o.ID)
			}
		}
	}
	if att.Kind == DragonHybrid && len(out) == 0 {
		for _, o := range present {
			if o.ID != att.ID && o.Kind == DragonElemental && !sharesElement(att, o) {
				out = append(out, o.ID)
			}
		}
	}
	sort.Strings(out)
	return out
}

func sharesElement(a, b *Dragon) bool {
	for _, ea := range a.Elements {
		for _, eb := range b.Elements {
			if ea == eb {
				return true
			}
		}
	}
	return false
}

func sameElements(a, b *Dragon) bool {
	if len(a.Elements) != len(b.Elements) {
		return false
	}
	for _, ea := range a.Elements {
		found := false
		for _, eb := range b.Elements {
			if ea == eb {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// DesignateDragonTargets resolves the matrix ties with the owners'
// simultaneous designations. Every ambiguous dragon must be covered.
func (g *Game) DesignateDragonTargets(choices map[string]string) ([]Event, error) {
	s, err := g.currentSortie(awaitDesignations)
	if err != nil {
		return nil, err
	}
	if len(choices) != len(s.ambiguous) {
		return nil, validationErrf("designations must cover exactly the %d contested dragons", len(s.ambiguous))
	}
	for dragonID, targetID := range choices {
		candidates, ok := s.ambiguous[dragonID]
		if !ok {
			return nil, validationErrf("dragon %s has a fixed target", dragonID)
		}
		legal := false
		for _, c := range candidates {
			if c == targetID {
				legal = true
				break
			}
		}
		if !legal {
			return nil, validationErrf("dragon %s cannot target %s", dragonID, targetID)
		}
	}
	for dragonID, targetID := range choices {
		s.attacks[dragonID].target = targetID
	}
	s.step = awaitDragonFaces
	return nil, nil
}

// SubmitDragonFaces reports every attacking dragon's face, with the forced
// re-roll chains supplied in order. Tails re-roll the attacker; breath
// against a dragon re-rolls the struck dragon; chained faces add points
// only.
func (g *Game) SubmitDragonFaces(faces []DragonFaceEntry, rerolls []DragonFaceEntry) ([]Event, error) {
	s, err := g.currentSortie(awaitDragonFaces)
	if err != nil {
		return nil, err
	}
	initial := make(map[string]DragonFace, len(faces))
	for _, f := range faces {
		if _, ok := s.attacks[f.Dragon]; !ok {
			return nil, invalidRollErrf("dragon %s is not attacking at %s", f.Dragon, s.terrain)
		}
		if _, dup := initial[f.Dragon]; dup {
			return nil, invalidRollErrf("dragon %s reported twice", f.Dragon)
		}
		initial[f.Dragon] = f.Face
	}
	if len(initial) != len(s.order) {
		return nil, invalidRollErrf("every attacking dragon must report exactly one face")
	}

	// The chains resolve into a scratch tally first: a bad submission must
	// leave the sortie untouched so the whole report can be retried.
	tally := newFacesTally(s)
	queue := newRerollQueue(rerolls)
	for _, id := range s.order {
		if err := tally.resolve(g, id, initial[id], queue); err != nil {
			return nil, err
		}
	}
	if leftover := queue.leftover(); leftover != "" {
		return nil, invalidRollErrf("unused re-roll for dragon %s", leftover)
	}

	s.apply(g, tally)
	return g.emit(g.afterDragonRolls(s)), nil
}

// rerollQueue hands out chained faces per rolled dragon, in submission
// order.
type rerollQueue struct {
	byDragon map[string][]DragonFace
}

func newRerollQueue(rerolls []DragonFaceEntry) *rerollQueue {
	q := &rerollQueue{byDragon: make(map[string][]DragonFace)}
	for _, r := range rerolls {
		q.byDragon[r.Dragon] = append(q.byDragon[r.Dragon], r.Face)
	}
	return q
}

func (q *rerollQueue) pop(dragonID string) (DragonFace, bool) {
	faces := q.byDragon[dragonID]
	if len(faces) == 0 {
		return "", false
	}
	q.byDragon[dragonID] = faces[1:]
	return faces[0], true
}

func (q *rerollQueue) leftover() string {
	var ids []string
	for id, faces := range q.byDragon {
		if len(faces) > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

// facesTally accumulates one faces submission without touching the sortie.
type facesTally struct {
	recs      map[string]*attackRecord
	breath    int
	treasures int
	breathers []*Dragon
}

func newFacesTally(s *sortie) *facesTally {
	t := &facesTally{recs: make(map[string]*attackRecord, len(s.attacks))}
	for id, rec := range s.attacks {
		t.recs[id] = &attackRecord{dragon: rec.dragon, target: rec.target}
	}
	return t
}

// apply copies a fully resolved tally onto the sortie and registers the
// breath side effects.
func (s *sortie) apply(g *Game, t *facesTally) {
	s.attacks = t.recs
	s.breath = t.breath
	s.treasures = t.treasures
	for _, d := range t.breathers {
		s.noteBreathElements(g, d)
	}
}

// resolve applies one dragon's initial face and walks its re-roll chain.
func (t *facesTally) resolve(g *Game, dragonID string, face DragonFace, queue *rerollQueue) error {
	rec := t.recs[dragonID]
	vsArmy := rec.target == "army"

	switch face {
	case FaceJaws:
		rec.damage += 12
	case FaceClaw:
		rec.damage += 6
	case FaceTail:
		rec.damage += 3
		next, ok := queue.pop(dragonID)
		if !ok {
			return invalidRollErrf("dragon %s rolled a tail and must re-roll", dragonID)
		}
		return t.chain(g, rec, dragonID, next, queue)
	case FaceWing:
		rec.damage += 5
		rec.winged = true
	case FaceBelly:
		rec.belly = true
	case FaceTreasure:
		if vsArmy {
			t.treasures++
		}
	case FaceBreath:
		points := 5
		if rec.dragon.Kind == DragonWhite {
			points = 10
		}
		if vsArmy {
			t.breath += points
			t.breathers = append(t.breathers, rec.dragon)
			return nil
		}
		rec.damage += points
		next, ok := queue.pop(rec.target)
		if !ok {
			return invalidRollErrf("dragon %s was breathed on and must be re-rolled", rec.target)
		}
		return t.chain(g, rec, rec.target, next, queue)
	default:
		return invalidRollErrf("unknown dragon face %q", face)
	}
	return nil
}

// chain walks a re-roll chain, adding points until a non-chaining face ends
// it. Chained belly, treasure and wing flags never trigger.
func (t *facesTally) chain(g *Game, rec *attackRecord, rolled string, face DragonFace, queue *rerollQueue) error {
	for {
		switch face {
		case FaceJaws:
			rec.damage += 12
			return nil
		case FaceClaw:
			rec.damage += 6
			return nil
		case FaceWing:
			rec.damage += 5
			return nil
		case FaceBelly, FaceTreasure:
			return nil
		case FaceTail:
			rec.damage += 3
		case FaceBreath:
			points := 5
			if g.state.Dragons[rolled] != nil && g.state.Dragons[rolled].Kind == DragonWhite {
				points = 10
			}
			if rec.target == "army" {
				t.breath += points
				t.breathers = append(t.breathers, rec.dragon)
				return nil
			}
			rec.damage += points
			rolled = rec.target
		default:
			return invalidRollErrf("unknown dragon face %q", face)
		}
		next, ok := queue.pop(rolled)
		if !ok {
			return invalidRollErrf("dragon %s keeps chaining and must be re-rolled", rolled)
		}
		face = next
	}
}

// noteBreathElements registers the breath side effects of every element the
// dragon carries. A duplicate halving hits the modifier cap and is dropped;
// the active one already covers it.
func (s *sortie) noteBreathElements(g *Game, d *Dragon) {
	armyID := s.army.ID()
	owner := s.army.Player
	for _, el := range d.Elements {
		var eff *Effect
		switch el {
		case Air:
			eff = breathHalving(armyID, owner, Melee, "breath:air")
		case Death:
			eff = &Effect{
				Target: armyTarget(armyID), Behavior: BehaviorNoID,
				Duration: DurationOwnersNextTurn, Skips: 1,
				Source: "breath:death", Owner: owner,
			}
		case Earth:
			eff = breathHalving(armyID, owner, Maneuver, "breath:earth")
		case Fire:
			s.fire = true
		case Water:
			eff = breathHalving(armyID, owner, Missile, "breath:water")
		}
		if eff == nil {
			continue
		}
		if err := g.effects.Register(eff); err != nil {
			continue
		}
		s.sideEffects = append(s.sideEffects, &EffectRegisteredEvent{Effect: eff.ID, Source: eff.Source, Target: eff.Target})
	}
}

func breathHalving(armyID, owner string, rt ResultType, source string) *Effect {
	return &Effect{
		Target: armyTarget(armyID), Behavior: BehaviorModifier,
		Op: OpDivide, Result: rt, Magnitude: 2,
		Duration: DurationOwnersNextTurn, Skips: 1,
		Source: source, Owner: owner,
	}
}

// afterDragonRolls moves the sortie to whatever the rolled faces demand:
// breath casualties, treasure promotions, or straight to the response.
func (g *Game) afterDragonRolls(s *sortie) []Event {
	events := s.sideEffects
	s.sideEffects = nil
	if s.breath > 0 {
		units := g.state.ArmyUnits(s.army.ID())
		s.breathReq = killRequirement(units, s.breath)
		s.step = awaitBreathKills
		return events
	}
	return append(events, g.afterBreath(s)...)
}

// afterBreath continues past the immediate breath resolution.
func (g *Game) afterBreath(s *sortie) []Event {
	if s.treasures > 0 {
		s.step = awaitTreasure
		return nil
	}
	return g.openResponse(s)
}

// openResponse asks for the defending army's combined melee, missile and
// save roll. An army wiped out by breath skips straight to the dragons'
// departure.
func (g *Game) openResponse(s *sortie) []Event {
	units := g.state.ArmyUnits(s.army.ID())
	if len(units) == 0 {
		s.response = RollTotals{}
		return g.settleSortieDamage(s)
	}
	s.roll = &PendingRoll{
		Purpose: PurposeOf(Melee, Missile, Save),
		Target:  armyTarget(s.army.ID()),
		Units:   unitIDs(units),
	}
	s.step = awaitResponse
	return nil
}

// SubmitDragonResponse reports the defending army's combination roll.
func (g *Game) SubmitDragonResponse(entries []RollEntry) ([]Event, error) {
	s, err := g.currentSortie(awaitResponse)
	if err != nil {
		return nil, err
	}
	totals, err := resolvePipeline(g.defs, g.state, g.effects, s.roll, entries)
	if err != nil {
		return nil, err
	}
	events := g.effects.NoteRoll(s.roll.Target, s.roll.Purpose)
	s.response = totals
	s.roll = nil

	pool := totals[Melee] + totals[Missile]
	if pool > 0 && len(s.dragons) > 1 {
		s.step = awaitAllocation
		return g.emit(events), nil
	}
	if pool > 0 {
		s.allocation[s.dragons[0].ID] = pool
	}
	return g.emit(append(events, g.settleSortieDamage(s)...)), nil
}

// AllocateDragonDamage spreads the army's melee and missile results over
// the attacking dragons. Unallocated points are wasted.
func (g *Game) AllocateDragonDamage(alloc []DragonDamage) ([]Event, error) {
	s, err := g.currentSortie(awaitAllocation)
	if err != nil {
		return nil, err
	}
	pool := s.response[Melee] + s.response[Missile]
	staged := make(map[string]int, len(alloc))
	total := 0
	for _, a := range alloc {
		if _, ok := s.attacks[a.Dragon]; !ok {
			return nil, validationErrf("dragon %s is not at %s", a.Dragon, s.terrain)
		}
		if a.Points < 0 {
			return nil, validationErrf("negative damage for dragon %s", a.Dragon)
		}
		total += a.Points
		staged[a.Dragon] += a.Points
	}
	if total > pool {
		return nil, validationErrf("allocated %d, but the response scored %d", total, pool)
	}
	s.allocation = staged
	return g.emit(g.settleSortieDamage(s)), nil
}

// settleSortieDamage applies everything but breath simultaneously: army
// casualties from the dragons' points, and each dragon's fate from army
// damage plus dragon-vs-dragon damage, less its five automatic saves
// unless its belly showed.
func (g *Game) settleSortieDamage(s *sortie) []Event {
	armyDamage := 0
	incoming := make(map[string]int, len(s.dragons))
	for _, id := range s.order {
		rec := s.attacks[id]
		if rec.target == "army" {
			armyDamage += rec.damage
		} else {
			incoming[rec.target] += rec.damage
		}
	}
	for id, pts := range s.allocation {
		incoming[id] += pts
	}

	s.netDamage = armyDamage - s.response[Save]
	if s.netDamage < 0 {
		s.netDamage = 0
	}
	s.incoming = incoming
	s.batch = g.state.Zones.Begin()
	if s.netDamage > 0 {
		s.required = killRequirement(g.state.ArmyUnits(s.army.ID()), s.netDamage)
		s.step = awaitNetKills
		return nil
	}
	return g.closeSortie(s)
}

// closeSortie settles the dragons' fates and either waits for the slaying
// army's promotions or finishes the terrain.
func (g *Game) closeSortie(s *sortie) []Event {
	events := s.batch.Commit()
	s.batch = nil
	slainByArmy := false
	for _, id := range s.order {
		rec := s.attacks[id]
		d := rec.dragon
		hit := s.incoming[id]
		if !rec.belly {
			hit -= 5
		}
		slain := hit >= d.Health
		if slain {
			d.Terrain = ""
			events = append(events, &DragonSlainEvent{Dragon: d.ID, Terrain: s.terrain})
			if s.allocation[id] > 0 {
				slainByArmy = true
			}
			continue
		}
		if rec.winged {
			d.Terrain = ""
			events = append(events, &DragonWingedEvent{Dragon: d.ID})
		}
	}
	events = append(events, g.effects.ExpireAtActionEnd(g.state.dissolveCheck)...)
	events = append(events, g.eighthLossSweep()...)
	if slainByArmy && len(g.state.ArmyUnits(s.army.ID())) > 0 {
		s.step = awaitSlainPromotions
		s.batch = g.state.Zones.Begin()
		return events
	}
	s.step = sortieDone
	g.sorties.idx++
	return events
}

// currentSortie fetches the active sortie, checking the expected step.
func (g *Game) currentSortie(step dragonStep) (*sortie, error) {
	if g.sorties == nil || g.sorties.done() {
		return nil, protocolErrf("no dragon attack is in progress")
	}
	s := g.sorties.current()
	if s.step != step {
		return nil, protocolErrf("the dragons at %s are not at that step", s.terrain)
	}
	return s, nil
}

// sortieKills routes a kill selection to the step that wants one: breath
// casualties or the simultaneous net damage.
func (g *Game) sortieKills(ids []string) ([]Event, error) {
	s := g.sorties.current()
	switch s.step {
	case awaitBreathKills:
		return g.submitBreathKills(s, ids)
	case awaitNetKills:
		zone := ArmyZone(s.army.Player, s.army.Name)
		if err := g.stageKills(s.batch, zone, s.army.ID(), ids, s.netDamage, s.required); err != nil {
			return nil, err
		}
		return g.emit(g.closeSortie(s)), nil
	}
	return nil, protocolErrf("the dragons at %s are not waiting on casualties", s.terrain)
}

// submitBreathKills resolves the immediate breath casualties. Fire breath
// holds the commit until every victim has rolled its bury save.
func (g *Game) submitBreathKills(s *sortie, ids []string) ([]Event, error) {
	batch := g.state.Zones.Begin()
	zone := ArmyZone(s.army.Player, s.army.Name)
	if err := g.stageKills(batch, zone, s.army.ID(), ids, s.breath, s.breathReq); err != nil {
		batch.Discard()
		return nil, err
	}
	if s.fire {
		batch.Discard()
		s.victims = ids
		s.roll = &PendingRoll{
			Purpose: PurposeOf(Save),
			Target:  armyTarget(s.army.ID()),
			Units:   ids,
		}
		s.step = awaitBreathSaves
		return nil, nil
	}
	events := batch.Commit()
	return g.emit(append(events, g.afterBreath(s)...)), nil
}

// submitBreathSaves resolves fire breath's per-unit bury saves: victims
// that rolled a save die normally, the rest are buried outright.
func (g *Game) submitBreathSaves(entries []RollEntry) ([]Event, error) {
	s, err := g.currentSortie(awaitBreathSaves)
	if err != nil {
		return nil, err
	}
	saved, err := g.perUnitSaves(s, entries)
	if err != nil {
		return nil, err
	}
	batch := g.state.Zones.Begin()
	for _, id := range s.victims {
		u, err := g.state.Zones.Unit(id)
		if err != nil {
			batch.Discard()
			return nil, err
		}
		dest := ZoneBUA
		if saved[id] {
			dest = ZoneDUA
		}
		if err := batch.Kill(id, PlayerZone(dest, u.Player)); err != nil {
			batch.Discard()
			return nil, err
		}
	}
	s.roll = nil
	s.victims = nil
	events := batch.Commit()
	return g.emit(append(events, g.afterBreath(s)...)), nil
}

// perUnitSaves validates one face per victim and reports which of them
// produced a save. ID faces save; counted yields do not pool across units.
func (g *Game) perUnitSaves(s *sortie, entries []RollEntry) (map[string]bool, error) {
	roster, err := rollRoster(g.defs, g.state, s.roll, entries)
	if err != nil {
		return nil, err
	}
	saved := make(map[string]bool, len(entries))
	for i, entry := range entries {
		ru := roster[i]
		kind := IconKind(entry.Icon)
		switch {
		case kind == IconID:
			if !hasFace(ru.def, IconID) {
				return nil, invalidRollErrf("unit %s has no id face", ru.unit.ID)
			}
			saved[entry.Unit] = true
		case isActionIcon(kind):
			if !hasFace(ru.def, kind) {
				return nil, invalidRollErrf("unit %s has no %s face", ru.unit.ID, kind)
			}
			if kind == IconSave {
				saved[entry.Unit] = true
			}
		default:
			sai, err := g.defs.SAI(entry.Icon)
			if err != nil {
				return nil, err
			}
			if !hasSAIFace(ru.def, sai.ID) {
				return nil, invalidRollErrf("unit %s has no %s face", ru.unit.ID, sai.ID)
			}
			for _, y := range matchYields(sai, s.roll.Purpose) {
				if ResultType(y.Result) == Save {
					saved[entry.Unit] = true
				}
			}
		}
	}
	return saved, nil
}

// sortiePromotions routes a promotion batch to the step that wants one:
// the treasure grants or the post-slaying reward.
func (g *Game) sortiePromotions(pairs []PromotionPair) ([]Event, error) {
	s := g.sorties.current()
	switch s.step {
	case awaitTreasure:
		if len(pairs) > s.treasures {
			return nil, ruleErrf("the treasure allows %d promotions, not %d", s.treasures, len(pairs))
		}
		batch := g.state.Zones.Begin()
		if err := g.stagePromotions(batch, s.army, pairs); err != nil {
			batch.Discard()
			return nil, err
		}
		events := batch.Commit()
		s.treasures = 0
		return g.emit(append(events, g.openResponse(s)...)), nil
	case awaitSlainPromotions:
		if err := g.stagePromotions(s.batch, s.army, pairs); err != nil {
			return nil, err
		}
		events := s.batch.Commit()
		s.batch = nil
		s.step = sortieDone
		g.sorties.idx++
		return g.emit(events), nil
	}
	return nil, protocolErrf("the dragons at %s are not waiting on promotions", s.terrain)
}
