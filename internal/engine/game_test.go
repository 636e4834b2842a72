package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/dragondice/internal/data"
)

// recordingSink collects every emitted event in order.
type recordingSink struct {
	events []Event
}

func (s *recordingSink) Emit(evt Event) { s.events = append(s.events, evt) }

func TestGameReportsToTheSink(t *testing.T) {
	defs := testDefs(t)
	state, err := BuildState(defs, baseSetup())
	require.NoError(t, err)

	sink := &recordingSink{}
	g, err := NewGame(defs, state, sink)
	require.NoError(t, err)

	// The opening phase is announced before any call comes in.
	require.Len(t, sink.events, 1)
	opening, ok := sink.events[0].(*PhaseAdvancedEvent)
	require.True(t, ok)
	assert.Equal(t, PhaseExpireEffects, opening.Phase)
	assert.Equal(t, "p1", opening.Player)

	returned, err := g.CompletePhase()
	require.NoError(t, err)
	assert.Equal(t, returned, sink.events[1:])
}

func TestBuildStateValidation(t *testing.T) {
	cases := []struct {
		name string
		warp func(*data.Setup)
		want string
	}{
		{"single player", func(s *data.Setup) { s.Players = s.Players[:1] }, "at least two players"},
		{"unknown terrain kind", func(s *data.Setup) { s.Terrains[0].Terrain = "swamp" }, "swamp"},
		{"face out of range", func(s *data.Setup) { s.Terrains[0].Face = 9 }, "out of range"},
		{"duplicate terrain id", func(s *data.Setup) {
			s.Terrains = append(s.Terrains, data.SetupTerrain{ID: "t1", Terrain: "peak", Face: 1})
		}, `duplicate terrain id "t1"`},
		{"duplicate player", func(s *data.Setup) { s.Players[1].Name = "p1" }, `duplicate player "p1"`},
		{"army at an unknown terrain", func(s *data.Setup) { s.Players[0].Armies[0].Terrain = "t9" }, "t9"},
		{"duplicate army", func(s *data.Setup) {
			s.Players[0].Armies = append(s.Players[0].Armies, data.SetupArmy{Name: "home", Terrain: "t1"})
		}, `duplicate army "p1/home"`},
		{"unknown unit kind", func(s *data.Setup) { s.Players[0].Armies[0].Units[0].Unit = "titan" }, "titan"},
		{"duplicate unit id", func(s *data.Setup) {
			s.Players[0].Reserve = []data.SetupUnit{{ID: "a1", Unit: "grunt"}}
		}, `duplicate unit id "a1"`},
		{"unknown dragon kind", func(s *data.Setup) {
			s.Dragons = []data.SetupDragon{{ID: "d1", Dragon: "gold", Summoner: "p1"}}
		}, "gold"},
		{"dragon of an unknown summoner", func(s *data.Setup) {
			s.Dragons = []data.SetupDragon{{ID: "d1", Dragon: "red", Summoner: "p9"}}
		}, "unknown summoner"},
		{"dragon at an unknown terrain", func(s *data.Setup) {
			s.Dragons = []data.SetupDragon{{ID: "d1", Dragon: "red", Summoner: "p1", Terrain: "t9"}}
		}, "t9"},
		{"duplicate dragon id", func(s *data.Setup) {
			s.Dragons = []data.SetupDragon{
				{ID: "d1", Dragon: "red", Summoner: "p1"},
				{ID: "d1", Dragon: "blue", Summoner: "p2"},
			}
		}, `duplicate dragon id "d1"`},
	}
	defs := testDefs(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setup := baseSetup()
			tc.warp(setup)
			_, err := BuildState(defs, setup)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestBuildStatePlacesEveryZone(t *testing.T) {
	setup := baseSetup()
	setup.Name = "g1"
	setup.Players[0].Reserve = []data.SetupUnit{{ID: "r1", Unit: "grunt"}}
	setup.Players[0].DUA = []data.SetupUnit{{ID: "x1", Unit: "veteran"}}
	setup.Players[0].Summoning = []data.SetupUnit{{ID: "k1", Unit: "whelp"}}
	setup.Dragons = []data.SetupDragon{
		{ID: "d1", Dragon: "red", Summoner: "p1", Terrain: "t1"},
		{ID: "d2", Dragon: "wyrm", Summoner: "p2"},
	}
	defs := testDefs(t)
	state, err := BuildState(defs, setup)
	require.NoError(t, err)

	assert.Equal(t, "g1", state.ID)
	assert.Equal(t, []string{"p1", "p2"}, state.Players)

	zone, err := state.Zones.ZoneOf("r1")
	require.NoError(t, err)
	assert.Equal(t, PlayerZone(ZoneReserve, "p1"), zone)
	zone, err = state.Zones.ZoneOf("x1")
	require.NoError(t, err)
	assert.Equal(t, PlayerZone(ZoneDUA, "p1"), zone)
	zone, err = state.Zones.ZoneOf("k1")
	require.NoError(t, err)
	assert.Equal(t, PlayerZone(ZoneSummoning, "p1"), zone)

	// Catalog stats land on the instances.
	u, err := state.Zones.Unit("a3")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Health)
	assert.Equal(t, "elf", u.Species)

	require.Contains(t, state.Dragons, "d1")
	assert.Equal(t, "t1", state.Dragons["d1"].Terrain)
	assert.Equal(t, DragonWhite, state.Dragons["d2"].Kind)
	assert.Equal(t, 10, state.Dragons["d2"].Health)
	assert.Empty(t, state.Dragons["d2"].Terrain)
}

func TestReinforceMovesReserves(t *testing.T) {
	setup := baseSetup()
	setup.Players[0].Reserve = []data.SetupUnit{{ID: "r1", Unit: "grunt"}, {ID: "r2", Unit: "grunt"}}
	setup.Terrains = append(setup.Terrains, data.SetupTerrain{ID: "t2", Terrain: "peak", Face: 2})
	g := newTestGame(t, setup)
	advance(t, g, 3)

	_, err := g.Reinforce([]string{"r1"}, "t1")
	assert.ErrorContains(t, err, "reserves step")

	advance(t, g, 4)
	require.Equal(t, PhaseReservesReinforce, g.Phase())

	_, err = g.Reinforce([]string{"r1"}, "t9")
	require.Error(t, err)
	_, err = g.Reinforce([]string{"a1"}, "t1")
	assert.ErrorContains(t, err, "not in p1's reserve")

	_, err = g.Reinforce([]string{"r1"}, "t1")
	require.NoError(t, err)
	zone, err := g.state.Zones.ZoneOf("r1")
	require.NoError(t, err)
	assert.Equal(t, ArmyZone("p1", "home"), zone)

	// Reinforcing an unheld terrain founds an army named after it.
	_, err = g.Reinforce([]string{"r2"}, "t2")
	require.NoError(t, err)
	army, err := g.state.Army("p1/t2")
	require.NoError(t, err)
	assert.Equal(t, "t2", army.Terrain)
	assert.Len(t, g.state.ArmyUnits("p1/t2"), 1)
}

func TestRetreatValidation(t *testing.T) {
	setup := baseSetup()
	setup.Players[0].Reserve = []data.SetupUnit{{ID: "r1", Unit: "grunt"}}
	g := newTestGame(t, setup)
	advance(t, g, 7)

	_, err := g.Retreat([]string{"a1"})
	assert.ErrorContains(t, err, "reserves step")

	advance(t, g, 1)
	require.Equal(t, PhaseReservesRetreat, g.Phase())

	_, err = g.Retreat([]string{"e1"})
	assert.ErrorContains(t, err, "not in one of p1's armies")
	_, err = g.Retreat([]string{"r1"})
	assert.ErrorContains(t, err, "not in one of p1's armies")

	_, err = g.Retreat([]string{"a1", "a2"})
	require.NoError(t, err)
	assert.Len(t, g.state.Zones.UnitsIn(PlayerZone(ZoneReserve, "p1")), 3)
	assert.Len(t, g.state.ArmyUnits("p1/home"), 1)
}

func TestEmptyArmyCannotMarch(t *testing.T) {
	setup := baseSetup()
	setup.Players[0].Armies = append(setup.Players[0].Armies,
		data.SetupArmy{Name: "ghost", Terrain: "t1"})
	g := newTestGame(t, setup)
	advance(t, g, 3)

	_, err := g.Maneuver("p1/ghost", nil, nil)
	require.Error(t, err)
	var empty *EmptyArmyError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "ghost", empty.Army)
}
