package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/suderio/dragondice/internal/data"
)

// Definitions is the read-only reference data the engine resolves against.
// A lookup miss is a fatal *data.UnknownDefinitionError, never a default.
type Definitions interface {
	Species(id string) (data.SpeciesDefinition, error)
	Unit(id string) (data.UnitDefinition, error)
	Terrain(id string) (data.TerrainDefinition, error)
	Dragon(id string) (data.DragonDefinition, error)
	Spell(id string) (data.SpellDefinition, error)
	SAI(id string) (data.SAIDefinition, error)
}

// Unit is one physical die in play. Damage is transient: it never survives
// the action that inflicted it.
type Unit struct {
	ID      string `json:"id"`
	Def     string `json:"def"`
	Name    string `json:"name"`
	Player  string `json:"player"`
	Species string `json:"species"`
	Health  int    `json:"health"`
	Damage  int    `json:"damage,omitempty"`
}

// Army is a named group of units at a terrain. Membership is owned by the
// zone store; the army record carries identity and location only.
type Army struct {
	Player  string `json:"player"`
	Name    string `json:"name"`
	Terrain string `json:"terrain"`
}

// ID is the army's zone string, also used as effect target id.
func (a *Army) ID() string { return a.Player + "/" + a.Name }

// Terrain is a terrain die in play.
type Terrain struct {
	ID         string    `json:"id"`
	Def        string    `json:"def"`
	Name       string    `json:"name"`
	Elements   []Element `json:"elements"`
	Face       int       `json:"face"`
	Controller string    `json:"controller,omitempty"` // army id
}

// EighthActive reports whether eighth-face advantages are live: face 8 and
// a controlling army still present.
func (t *Terrain) EighthActive() bool {
	return t.Face == 8 && t.Controller != ""
}

// Dragon is a dragon die in play. Dragons are never inside an army; an
// empty Terrain means the summoner's Summoning Pool.
type Dragon struct {
	ID       string     `json:"id"`
	Def      string     `json:"def"`
	Name     string     `json:"name"`
	Kind     DragonKind `json:"kind"`
	Elements []Element  `json:"elements,omitempty"`
	Health   int        `json:"health"`
	Summoner string     `json:"summoner"`
	Terrain  string     `json:"terrain,omitempty"`
}

// GameState is the authoritative game state. All unit custody goes through
// Zones; armies, terrains and dragons are mutated by the resolvers only.
type GameState struct {
	ID       string              `json:"id"`
	Players  []string            `json:"players"`
	Terrains map[string]*Terrain `json:"terrains"`
	Armies   map[string]*Army    `json:"armies"`
	Dragons  map[string]*Dragon  `json:"dragons"`
	Zones    *ZoneStore          `json:"-"`
}

// NewGameState creates an empty state with a fresh game id.
func NewGameState() *GameState {
	return &GameState{
		ID:       uuid.NewString(),
		Terrains: make(map[string]*Terrain),
		Armies:   make(map[string]*Army),
		Dragons:  make(map[string]*Dragon),
		Zones:    NewZoneStore(),
	}
}

// Army returns the army record for an army id ("player/name").
func (s *GameState) Army(id string) (*Army, error) {
	a, ok := s.Armies[id]
	if !ok {
		return nil, validationErrf("no army %q", id)
	}
	return a, nil
}

// Terrain returns the terrain record for id.
func (s *GameState) Terrain(id string) (*Terrain, error) {
	t, ok := s.Terrains[id]
	if !ok {
		return nil, validationErrf("no terrain %q", id)
	}
	return t, nil
}

// Dragon returns the dragon record for id.
func (s *GameState) Dragon(id string) (*Dragon, error) {
	d, ok := s.Dragons[id]
	if !ok {
		return nil, validationErrf("no dragon %q", id)
	}
	return d, nil
}

// HasPlayer reports whether name is one of the game's players.
func (s *GameState) HasPlayer(name string) bool {
	for _, p := range s.Players {
		if p == name {
			return true
		}
	}
	return false
}

// ArmiesAt returns the armies located at a terrain, sorted by id for
// deterministic iteration.
func (s *GameState) ArmiesAt(terrainID string) []*Army {
	var out []*Army
	for _, a := range s.Armies {
		if a.Terrain == terrainID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ArmyUnits returns the living units currently in an army.
func (s *GameState) ArmyUnits(armyID string) []*Unit {
	a, ok := s.Armies[armyID]
	if !ok {
		return nil
	}
	return s.Zones.UnitsIn(ArmyZone(a.Player, a.Name))
}

// DragonsAt returns the dragons at a terrain, sorted by id.
func (s *GameState) DragonsAt(terrainID string) []*Dragon {
	var out []*Dragon
	for _, d := range s.Dragons {
		if d.Terrain == terrainID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// dissolveCheck reports whether an army id currently has zero units. Used
// only at end-of-action effect teardown.
func (s *GameState) dissolveCheck(armyID string) bool {
	a, ok := s.Armies[armyID]
	if !ok {
		return true
	}
	return s.Zones.Count(ArmyZone(a.Player, a.Name)) == 0
}

// BuildState validates a setup against the reference data and constructs
// the initial game state.
func BuildState(defs Definitions, setup *data.Setup) (*GameState, error) {
	if len(setup.Players) < 2 {
		return nil, validationErrf("a game needs at least two players, got %d", len(setup.Players))
	}
	s := NewGameState()
	if setup.Name != "" {
		s.ID = setup.Name
	}

	for _, st := range setup.Terrains {
		def, err := defs.Terrain(st.Terrain)
		if err != nil {
			return nil, err
		}
		if st.Face < 1 || st.Face > 8 {
			return nil, validationErrf("terrain %s: face %d out of range 1..8", st.ID, st.Face)
		}
		if _, dup := s.Terrains[st.ID]; dup {
			return nil, validationErrf("duplicate terrain id %q", st.ID)
		}
		t := &Terrain{ID: st.ID, Def: def.ID, Name: def.Name, Face: st.Face}
		for _, e := range def.Elements {
			t.Elements = append(t.Elements, Element(e))
		}
		s.Terrains[st.ID] = t
	}

	for _, sp := range setup.Players {
		if s.HasPlayer(sp.Name) {
			return nil, validationErrf("duplicate player %q", sp.Name)
		}
		s.Players = append(s.Players, sp.Name)

		for _, sa := range sp.Armies {
			if _, err := s.Terrain(sa.Terrain); err != nil {
				return nil, err
			}
			army := &Army{Player: sp.Name, Name: sa.Name, Terrain: sa.Terrain}
			if _, dup := s.Armies[army.ID()]; dup {
				return nil, validationErrf("duplicate army %q", army.ID())
			}
			s.Armies[army.ID()] = army
			for _, su := range sa.Units {
				if err := s.addUnit(defs, sp.Name, su, ArmyZone(sp.Name, sa.Name)); err != nil {
					return nil, err
				}
			}
		}
		for _, su := range sp.Reserve {
			if err := s.addUnit(defs, sp.Name, su, PlayerZone(ZoneReserve, sp.Name)); err != nil {
				return nil, err
			}
		}
		for _, su := range sp.DUA {
			if err := s.addUnit(defs, sp.Name, su, PlayerZone(ZoneDUA, sp.Name)); err != nil {
				return nil, err
			}
		}
		for _, su := range sp.Summoning {
			if err := s.addUnit(defs, sp.Name, su, PlayerZone(ZoneSummoning, sp.Name)); err != nil {
				return nil, err
			}
		}
	}

	for _, sd := range setup.Dragons {
		def, err := defs.Dragon(sd.Dragon)
		if err != nil {
			return nil, err
		}
		if !s.HasPlayer(sd.Summoner) {
			return nil, validationErrf("dragon %s: unknown summoner %q", sd.ID, sd.Summoner)
		}
		if sd.Terrain != "" {
			if _, err := s.Terrain(sd.Terrain); err != nil {
				return nil, err
			}
		}
		if _, dup := s.Dragons[sd.ID]; dup {
			return nil, validationErrf("duplicate dragon id %q", sd.ID)
		}
		d := &Dragon{
			ID:       sd.ID,
			Def:      def.ID,
			Name:     def.Name,
			Kind:     DragonKind(def.Kind),
			Health:   def.Health,
			Summoner: sd.Summoner,
			Terrain:  sd.Terrain,
		}
		for _, e := range def.Elements {
			d.Elements = append(d.Elements, Element(e))
		}
		s.Dragons[sd.ID] = d
	}

	return s, nil
}

func (s *GameState) addUnit(defs Definitions, player string, su data.SetupUnit, zone Zone) error {
	def, err := defs.Unit(su.Unit)
	if err != nil {
		return err
	}
	u := &Unit{
		ID:      su.ID,
		Def:     def.ID,
		Name:    fmt.Sprintf("%s (%s)", su.ID, def.Name),
		Player:  player,
		Species: def.Species,
		Health:  def.Health,
	}
	return s.Zones.Add(u, zone)
}
