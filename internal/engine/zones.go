package engine

// unitRecord pairs a unit with its single owning-zone tag. The tag is the
// only membership record: a unit is in exactly one zone at any time.
type unitRecord struct {
	unit *Unit
	zone Zone
}

// UnitPlacement is a (unit, zone) pair, used by snapshots.
type UnitPlacement struct {
	Unit *Unit
	Zone Zone
}

// ZoneStore is the arena of unit records. All custody changes go through a
// Batch; the store itself never mutates a zone tag directly.
type ZoneStore struct {
	recs  map[string]*unitRecord
	order []string
}

// NewZoneStore creates an empty arena.
func NewZoneStore() *ZoneStore {
	return &ZoneStore{recs: make(map[string]*unitRecord)}
}

// Add registers a new unit. Only setup and import create units.
func (zs *ZoneStore) Add(u *Unit, zone Zone) error {
	if _, dup := zs.recs[u.ID]; dup {
		return validationErrf("duplicate unit id %q", u.ID)
	}
	zs.recs[u.ID] = &unitRecord{unit: u, zone: zone}
	zs.order = append(zs.order, u.ID)
	return nil
}

// Unit returns the unit for id.
func (zs *ZoneStore) Unit(id string) (*Unit, error) {
	rec, ok := zs.recs[id]
	if !ok {
		return nil, validationErrf("no unit %q", id)
	}
	return rec.unit, nil
}

// ZoneOf returns the unit's current zone.
func (zs *ZoneStore) ZoneOf(id string) (Zone, error) {
	rec, ok := zs.recs[id]
	if !ok {
		return Zone{}, validationErrf("no unit %q", id)
	}
	return rec.zone, nil
}

// UnitsIn returns the units in a zone, in creation order.
func (zs *ZoneStore) UnitsIn(zone Zone) []*Unit {
	var out []*Unit
	for _, id := range zs.order {
		rec := zs.recs[id]
		if rec.zone == zone {
			out = append(out, rec.unit)
		}
	}
	return out
}

// Count returns the number of units in a zone.
func (zs *ZoneStore) Count(zone Zone) int {
	n := 0
	for _, rec := range zs.recs {
		if rec.zone == zone {
			n++
		}
	}
	return n
}

// All returns every placement in creation order, for snapshots.
func (zs *ZoneStore) All() []UnitPlacement {
	out := make([]UnitPlacement, 0, len(zs.order))
	for _, id := range zs.order {
		rec := zs.recs[id]
		out = append(out, UnitPlacement{Unit: rec.unit, Zone: rec.zone})
	}
	return out
}

// Begin opens a transactional batch over the store.
func (zs *ZoneStore) Begin() *Batch {
	return &Batch{store: zs, pending: make(map[string]Zone)}
}

// Batch stages custody changes. Reads through the batch see staged state,
// so later stages validate against earlier ones. Commit applies everything
// atomically and returns the notification events in staged order; Discard
// leaves the store untouched.
type Batch struct {
	store   *ZoneStore
	pending map[string]Zone
	events  []Event
}

// zoneOf reads a unit's zone through the overlay.
func (b *Batch) zoneOf(id string) (Zone, error) {
	if z, ok := b.pending[id]; ok {
		return z, nil
	}
	return b.store.ZoneOf(id)
}

// UnitsIn returns the units a zone would hold if the batch committed now.
func (b *Batch) UnitsIn(zone Zone) []*Unit {
	var out []*Unit
	for _, id := range b.store.order {
		z, ok := b.pending[id]
		if !ok {
			z = b.store.recs[id].zone
		}
		if z == zone {
			out = append(out, b.store.recs[id].unit)
		}
	}
	return out
}

// Move stages a plain zone-to-zone move (reinforce, retreat, summon).
func (b *Batch) Move(unitID string, dest Zone) error {
	from, err := b.zoneOf(unitID)
	if err != nil {
		return err
	}
	u, _ := b.store.Unit(unitID)
	if dest.Player != u.Player {
		return validationErrf("unit %s cannot move into %s's zone", unitID, dest.Player)
	}
	b.stage(unitID, dest)
	b.events = append(b.events, &UnitMovedEvent{Unit: unitID, From: from, To: dest})
	return nil
}

// Kill stages a kill. Dest is the owner's DUA unless a redirect effect or a
// bury side effect chose another of the owner's zones.
func (b *Batch) Kill(unitID string, dest Zone) error {
	from, err := b.zoneOf(unitID)
	if err != nil {
		return err
	}
	if from.Kind != ZoneArmy && from.Kind != ZoneReserve {
		return validationErrf("unit %s is not in play (%s)", unitID, from)
	}
	u, _ := b.store.Unit(unitID)
	if dest.Player != u.Player {
		return validationErrf("kill destination %s does not belong to %s", dest, u.Player)
	}
	switch dest.Kind {
	case ZoneDUA, ZoneReserve, ZoneBUA:
	default:
		return validationErrf("illegal kill destination %s", dest)
	}
	b.stage(unitID, dest)
	b.events = append(b.events, &UnitKilledEvent{Unit: unitID, Player: u.Player, From: from, To: dest})
	return nil
}

// Bury stages a DUA to BUA move.
func (b *Batch) Bury(unitID string) error {
	from, err := b.zoneOf(unitID)
	if err != nil {
		return err
	}
	if from.Kind != ZoneDUA {
		return validationErrf("unit %s is not in a DUA (%s)", unitID, from)
	}
	b.stage(unitID, PlayerZone(ZoneBUA, from.Player))
	b.events = append(b.events, &UnitBuriedEvent{Unit: unitID, Player: from.Player})
	return nil
}

// Exchange stages an atomic swap of two units' zones.
func (b *Batch) Exchange(aID, bID string) error {
	za, err := b.zoneOf(aID)
	if err != nil {
		return err
	}
	zb, err := b.zoneOf(bID)
	if err != nil {
		return err
	}
	b.stage(aID, zb)
	b.stage(bID, za)
	b.events = append(b.events, &UnitsExchangedEvent{A: aID, B: bID})
	return nil
}

// Promote stages a promotion exchange: the replacement takes the army
// slot, the promoted-from unit takes the replacement's pool slot.
func (b *Batch) Promote(armyUnitID, replacementID string) error {
	armyZone, err := b.zoneOf(armyUnitID)
	if err != nil {
		return err
	}
	if armyZone.Kind != ZoneArmy {
		return validationErrf("unit %s is not in an army (%s)", armyUnitID, armyZone)
	}
	poolZone, err := b.zoneOf(replacementID)
	if err != nil {
		return err
	}
	if poolZone.Kind != ZoneDUA && poolZone.Kind != ZoneSummoning {
		return validationErrf("replacement %s is not in a DUA or Summoning Pool (%s)", replacementID, poolZone)
	}
	b.stage(armyUnitID, poolZone)
	b.stage(replacementID, armyZone)
	b.events = append(b.events, &UnitPromotedEvent{From: armyUnitID, To: replacementID, Army: armyZone})
	return nil
}

// Recruit stages a DUA to army move (eighth-face City). The DUA count for
// the species goes down, not up.
func (b *Batch) Recruit(unitID string, army Zone) error {
	from, err := b.zoneOf(unitID)
	if err != nil {
		return err
	}
	if from.Kind != ZoneDUA {
		return validationErrf("recruit %s must come from a DUA (%s)", unitID, from)
	}
	if army.Kind != ZoneArmy || army.Player != from.Player {
		return validationErrf("illegal recruit destination %s", army)
	}
	b.stage(unitID, army)
	b.events = append(b.events, &UnitRecruitedEvent{Unit: unitID, Army: army})
	return nil
}

func (b *Batch) stage(unitID string, zone Zone) {
	b.pending[unitID] = zone
}

// Commit applies every staged change and returns the events in staged
// order. The batch must not be reused afterwards.
func (b *Batch) Commit() []Event {
	for id, zone := range b.pending {
		b.store.recs[id].zone = zone
	}
	events := b.events
	b.pending = nil
	b.events = nil
	return events
}

// Discard drops the batch; the store is unchanged.
func (b *Batch) Discard() {
	b.pending = nil
	b.events = nil
}
