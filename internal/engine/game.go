package engine

import (
	"sort"

	"github.com/suderio/dragondice/internal/rules"
)

// Game is the authoritative engine facade. The decision source drives it
// through synchronous calls; every committed mutation is reported to the
// sink as events, in commit order. All calls happen on one goroutine.
type Game struct {
	defs    Definitions
	state   *GameState
	effects *EffectManager
	seq     *Sequencer
	rules   *rules.Registry
	sink    Sink

	action  *actionState
	sorties *dragonPhase
	grant   *maneuverGrant
}

// NewGame starts a game at the first player's ExpireEffects phase.
func NewGame(defs Definitions, state *GameState, sink Sink) (*Game, error) {
	reg, err := rules.NewRegistry()
	if err != nil {
		return nil, err
	}
	g := &Game{
		defs:    defs,
		state:   state,
		effects: NewEffectManager(),
		seq:     NewSequencer(),
		rules:   reg,
		sink:    sink,
	}
	g.emit(g.settle(nil))
	return g, nil
}

// State exposes the game state for rendering and rules contexts. Callers
// must treat it as read-only.
func (g *Game) State() *GameState { return g.state }

// Phase returns the current sequencer phase.
func (g *Game) Phase() Phase { return g.seq.Phase() }

// TurnPlayer returns the player whose turn it is.
func (g *Game) TurnPlayer() string { return g.seq.Player(g.state.Players) }

// TurnNumber returns the 1-based turn counter.
func (g *Game) TurnNumber() int { return g.seq.Turn }

// AwaitedRoll returns the physical roll the engine is waiting on, if any.
func (g *Game) AwaitedRoll() *PendingRoll {
	if g.action != nil && g.action.roll != nil {
		return g.action.roll
	}
	if g.sorties != nil {
		return g.sorties.awaitedRoll()
	}
	return nil
}

// CompletePhase is the explicit phase-done signal. It refuses to leave a
// phase with an unresolved staged action or dragon attack.
func (g *Game) CompletePhase() ([]Event, error) {
	if g.action != nil {
		return nil, protocolErrf("an action is in progress; finish or abort it first")
	}
	if g.sorties != nil && !g.sorties.done() {
		return nil, protocolErrf("dragons at %s have not finished attacking", g.sorties.current().terrain)
	}
	g.grant = nil
	g.sorties = nil
	if p := g.seq.Phase(); p == PhaseFirstMarchAction || p == PhaseSecondMarchAction {
		g.seq.markActed()
	}
	g.seq.next(len(g.state.Players))
	return g.emit(g.settle(nil)), nil
}

// settle runs entry work for the current phase and advances past phases
// that cannot occur, returning the produced events capped by the
// PhaseAdvanced record for the phase the game comes to rest in.
func (g *Game) settle(events []Event) []Event {
	for {
		p := g.seq.Phase()
		skip := false
		switch p {
		case PhaseExpireEffects:
			events = append(events, g.effects.ExpireAtTurnStart(g.TurnPlayer(), g.seq.Turn)...)
		case PhaseDragonAttack:
			skip = !g.beginDragonPhase()
		}
		if skip {
			g.seq.next(len(g.state.Players))
			continue
		}
		events = append(events, &PhaseAdvancedEvent{Player: g.TurnPlayer(), Phase: p, Turn: g.seq.Turn})
		return events
	}
}

func (g *Game) emit(events []Event) []Event {
	if g.sink != nil {
		for _, e := range events {
			g.sink.Emit(e)
		}
	}
	return events
}

// eligibleMarchArmies lists the turn player's armies that can march: at a
// terrain with at least one unit.
func (g *Game) eligibleMarchArmies() []*Army {
	var out []*Army
	for _, t := range sortedTerrainIDs(g.state) {
		for _, a := range g.state.ArmiesAt(t) {
			if a.Player == g.TurnPlayer() && len(g.state.ArmyUnits(a.ID())) > 0 {
				out = append(out, a)
			}
		}
	}
	return out
}

// chooseMarchArmy validates and binds the army for the current march. An
// army that marched first may go again only when every other eligible army
// has already acted this turn.
func (g *Game) chooseMarchArmy(armyID string) (*Army, error) {
	a, err := g.state.Army(armyID)
	if err != nil {
		return nil, err
	}
	if a.Player != g.TurnPlayer() {
		return nil, protocolErrf("it is %s's turn, not %s's", g.TurnPlayer(), a.Player)
	}
	if len(g.state.ArmyUnits(a.ID())) == 0 {
		return nil, &EmptyArmyError{Player: a.Player, Army: a.Name}
	}
	if g.seq.march() == 2 && g.seq.Acted[a.ID()] {
		for _, other := range g.eligibleMarchArmies() {
			if other.ID() != a.ID() && !g.seq.Acted[other.ID()] {
				return nil, protocolErrf("army %s already marched; %s has not acted this turn", a.ID(), other.ID())
			}
		}
	}
	if err := g.seq.bindMarchArmy(a.ID()); err != nil {
		return nil, err
	}
	return a, nil
}

// Reinforce moves reserve units to one of the player's terrain armies,
// creating the army record when the player has none there.
func (g *Game) Reinforce(unitIDs []string, terrainID string) ([]Event, error) {
	if g.seq.Phase() != PhaseReservesReinforce {
		return nil, protocolErrf("reinforcing is a reserves step, not part of %s", g.seq.Phase())
	}
	if _, err := g.state.Terrain(terrainID); err != nil {
		return nil, err
	}
	player := g.TurnPlayer()
	army := g.armyAtTerrain(player, terrainID)
	if army == nil {
		army = &Army{Player: player, Name: terrainID, Terrain: terrainID}
		g.state.Armies[army.ID()] = army
	}
	batch := g.state.Zones.Begin()
	for _, id := range unitIDs {
		zone, err := batch.zoneOf(id)
		if err != nil {
			batch.Discard()
			return nil, err
		}
		if zone.Kind != ZoneReserve || zone.Player != player {
			batch.Discard()
			return nil, validationErrf("unit %s is not in %s's reserve", id, player)
		}
		if err := batch.Move(id, ArmyZone(player, army.Name)); err != nil {
			batch.Discard()
			return nil, err
		}
	}
	return g.emit(batch.Commit()), nil
}

// Retreat moves units from the player's terrain armies to the reserve. An
// army emptied off a captured terrain forfeits the eighth face.
func (g *Game) Retreat(unitIDs []string) ([]Event, error) {
	if g.seq.Phase() != PhaseReservesRetreat {
		return nil, protocolErrf("retreating is a reserves step, not part of %s", g.seq.Phase())
	}
	player := g.TurnPlayer()
	batch := g.state.Zones.Begin()
	for _, id := range unitIDs {
		zone, err := batch.zoneOf(id)
		if err != nil {
			batch.Discard()
			return nil, err
		}
		if zone.Kind != ZoneArmy || zone.Player != player {
			batch.Discard()
			return nil, validationErrf("unit %s is not in one of %s's armies", id, player)
		}
		if err := batch.Move(id, PlayerZone(ZoneReserve, player)); err != nil {
			batch.Discard()
			return nil, err
		}
	}
	events := batch.Commit()
	events = append(events, g.eighthLossSweep()...)
	return g.emit(events), nil
}

// armyAtTerrain returns the player's army at a terrain, or nil.
func (g *Game) armyAtTerrain(player, terrainID string) *Army {
	for _, a := range g.state.ArmiesAt(terrainID) {
		if a.Player == player {
			return a
		}
	}
	return nil
}

// eighthLossSweep reverts captured terrains whose controlling army no
// longer holds them, tearing down the grants the eighth face carried.
func (g *Game) eighthLossSweep() []Event {
	var events []Event
	for _, id := range sortedTerrainIDs(g.state) {
		t := g.state.Terrains[id]
		if t.Face != 8 || t.Controller == "" {
			continue
		}
		a, ok := g.state.Armies[t.Controller]
		holds := ok && a.Terrain == t.ID && len(g.state.ArmyUnits(a.ID())) > 0
		if holds {
			continue
		}
		t.Face = 7
		t.Controller = ""
		events = append(events, g.effects.ExpireBySource(eighthGrantSource(t.ID))...)
		events = append(events, &TerrainTurnedEvent{Terrain: t.ID, Face: 7, Army: ""})
	}
	return events
}

func eighthGrantSource(terrainID string) string { return "eighth:" + terrainID }

func sortedTerrainIDs(s *GameState) []string {
	ids := make([]string, 0, len(s.Terrains))
	for id := range s.Terrains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
