package engine

import (
	"sort"

	"github.com/suderio/dragondice/internal/rules"
)

// Snapshot is the complete serializable image of a game between actions:
// identity, records, unit placements, active effects, and the sequencer.
// Slices are sorted so the same state always marshals to the same bytes.
type Snapshot struct {
	ID        string         `json:"id"`
	Players   []string       `json:"players"`
	Terrains  []*Terrain     `json:"terrains"`
	Armies    []*Army        `json:"armies"`
	Dragons   []*Dragon      `json:"dragons"`
	Units     []UnitEntry    `json:"units"`
	Effects   []*Effect      `json:"effects,omitempty"`
	Swept     map[string]int `json:"swept,omitempty"`
	Sequencer *Sequencer     `json:"sequencer"`
	Grant     *GrantRecord   `json:"grant,omitempty"`
}

// UnitEntry is one unit and the zone that owns it.
type UnitEntry struct {
	Unit *Unit `json:"unit"`
	Zone Zone  `json:"zone"`
}

// GrantRecord preserves a pending maneuver grant across a save.
type GrantRecord struct {
	Army    string `json:"army"`
	Terrain string `json:"terrain"`
}

// ExportState deep-copies the game into a snapshot. Mid-action state never
// snapshots; finish or abort the action first.
func (g *Game) ExportState() (*Snapshot, error) {
	if g.action != nil {
		return nil, protocolErrf("an action is in progress; finish or abort it before saving")
	}
	if g.sorties != nil && !g.sorties.done() {
		return nil, protocolErrf("dragons are attacking; resolve them before saving")
	}

	snap := &Snapshot{
		ID:      g.state.ID,
		Players: append([]string(nil), g.state.Players...),
	}
	for _, t := range g.state.Terrains {
		cp := *t
		cp.Elements = append([]Element(nil), t.Elements...)
		snap.Terrains = append(snap.Terrains, &cp)
	}
	sort.Slice(snap.Terrains, func(i, j int) bool { return snap.Terrains[i].ID < snap.Terrains[j].ID })
	for _, a := range g.state.Armies {
		cp := *a
		snap.Armies = append(snap.Armies, &cp)
	}
	sort.Slice(snap.Armies, func(i, j int) bool { return snap.Armies[i].ID() < snap.Armies[j].ID() })
	for _, d := range g.state.Dragons {
		cp := *d
		cp.Elements = append([]Element(nil), d.Elements...)
		snap.Dragons = append(snap.Dragons, &cp)
	}
	sort.Slice(snap.Dragons, func(i, j int) bool { return snap.Dragons[i].ID < snap.Dragons[j].ID })
	for _, p := range g.state.Zones.All() {
		u := *p.Unit
		snap.Units = append(snap.Units, UnitEntry{Unit: &u, Zone: p.Zone})
	}

	snap.Effects, snap.Swept = g.effects.snapshot()

	seq := *g.seq
	seq.MarchArmies = copyIntMap(g.seq.MarchArmies)
	seq.Acted = copyBoolMap(g.seq.Acted)
	seq.EighthUsed = copyBoolMap(g.seq.EighthUsed)
	snap.Sequencer = &seq

	if g.grant != nil {
		snap.Grant = &GrantRecord{Army: g.grant.army, Terrain: g.grant.terrain}
	}
	return snap, nil
}

// ImportState validates a snapshot and replaces the game's state with it.
// The snapshot is copied, never aliased.
func (g *Game) ImportState(snap *Snapshot) error {
	if snap == nil {
		return validationErrf("nil snapshot")
	}
	if len(snap.Players) < 2 {
		return validationErrf("a game needs at least two players, got %d", len(snap.Players))
	}
	if snap.Sequencer == nil {
		return validationErrf("snapshot has no sequencer")
	}
	if n := len(phaseOrder); snap.Sequencer.PhaseIdx < 0 || snap.Sequencer.PhaseIdx >= n {
		return validationErrf("snapshot phase index %d out of range", snap.Sequencer.PhaseIdx)
	}
	if snap.Sequencer.PlayerIdx < 0 || snap.Sequencer.PlayerIdx >= len(snap.Players) {
		return validationErrf("snapshot player index %d out of range", snap.Sequencer.PlayerIdx)
	}

	state := &GameState{
		ID:       snap.ID,
		Players:  append([]string(nil), snap.Players...),
		Terrains: make(map[string]*Terrain, len(snap.Terrains)),
		Armies:   make(map[string]*Army, len(snap.Armies)),
		Dragons:  make(map[string]*Dragon, len(snap.Dragons)),
		Zones:    NewZoneStore(),
	}
	for _, t := range snap.Terrains {
		if _, dup := state.Terrains[t.ID]; dup {
			return validationErrf("duplicate terrain id %q", t.ID)
		}
		cp := *t
		cp.Elements = append([]Element(nil), t.Elements...)
		state.Terrains[cp.ID] = &cp
	}
	for _, a := range snap.Armies {
		if !state.HasPlayer(a.Player) {
			return validationErrf("army %s: unknown player %q", a.ID(), a.Player)
		}
		if _, ok := state.Terrains[a.Terrain]; !ok {
			return validationErrf("army %s: unknown terrain %q", a.ID(), a.Terrain)
		}
		if _, dup := state.Armies[a.ID()]; dup {
			return validationErrf("duplicate army %q", a.ID())
		}
		cp := *a
		state.Armies[cp.ID()] = &cp
	}
	for _, t := range state.Terrains {
		if t.Controller != "" {
			if _, ok := state.Armies[t.Controller]; !ok {
				return validationErrf("terrain %s: unknown controller %q", t.ID, t.Controller)
			}
		}
	}
	for _, d := range snap.Dragons {
		if !state.HasPlayer(d.Summoner) {
			return validationErrf("dragon %s: unknown summoner %q", d.ID, d.Summoner)
		}
		if d.Terrain != "" {
			if _, ok := state.Terrains[d.Terrain]; !ok {
				return validationErrf("dragon %s: unknown terrain %q", d.ID, d.Terrain)
			}
		}
		if _, dup := state.Dragons[d.ID]; dup {
			return validationErrf("duplicate dragon id %q", d.ID)
		}
		cp := *d
		cp.Elements = append([]Element(nil), d.Elements...)
		state.Dragons[cp.ID] = &cp
	}
	for _, entry := range snap.Units {
		if entry.Unit == nil {
			return validationErrf("snapshot unit entry has no unit")
		}
		if !state.HasPlayer(entry.Unit.Player) {
			return validationErrf("unit %s: unknown player %q", entry.Unit.ID, entry.Unit.Player)
		}
		if entry.Zone.Kind == ZoneArmy {
			armyID := entry.Zone.Player + "/" + entry.Zone.Army
			if _, ok := state.Armies[armyID]; !ok {
				return validationErrf("unit %s: unknown army %q", entry.Unit.ID, armyID)
			}
		}
		u := *entry.Unit
		if err := state.Zones.Add(&u, entry.Zone); err != nil {
			return err
		}
	}

	effects := NewEffectManager()
	if err := effects.restore(snap.Effects, snap.Swept); err != nil {
		return err
	}

	seq := *snap.Sequencer
	seq.MarchArmies = copyIntMap(snap.Sequencer.MarchArmies)
	if seq.MarchArmies == nil {
		seq.MarchArmies = make(map[int]string)
	}
	seq.Acted = copyBoolMap(snap.Sequencer.Acted)
	if seq.Acted == nil {
		seq.Acted = make(map[string]bool)
	}
	seq.EighthUsed = copyBoolMap(snap.Sequencer.EighthUsed)
	if seq.EighthUsed == nil {
		seq.EighthUsed = make(map[string]bool)
	}

	g.state = state
	g.effects = effects
	g.seq = &seq
	g.action = nil
	g.sorties = nil
	g.grant = nil
	if snap.Grant != nil {
		g.grant = &maneuverGrant{army: snap.Grant.Army, terrain: snap.Grant.Terrain}
	}
	return nil
}

// ResumeGame reconstructs a game from a saved snapshot. Unlike NewGame it
// runs no opening phase work: the snapshot already rests in a valid phase.
func ResumeGame(defs Definitions, snap *Snapshot, sink Sink) (*Game, error) {
	reg, err := rules.NewRegistry()
	if err != nil {
		return nil, err
	}
	g := &Game{
		defs:    defs,
		state:   NewGameState(),
		effects: NewEffectManager(),
		seq:     NewSequencer(),
		rules:   reg,
		sink:    sink,
	}
	if err := g.ImportState(snap); err != nil {
		return nil, err
	}
	return g, nil
}

func copyIntMap(in map[int]string) map[int]string {
	if in == nil {
		return nil
	}
	out := make(map[int]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyBoolMap(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
