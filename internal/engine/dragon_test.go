package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/dragondice/internal/data"
)

func dragonSetup(dragons ...data.SetupDragon) *data.Setup {
	setup := baseSetup()
	setup.Dragons = dragons
	return setup
}

// advance 2 rests the game in the dragon attack phase when dragons face the
// turn player.
func toDragonPhase(t *testing.T, g *Game) {
	t.Helper()
	advance(t, g, 2)
	require.Equal(t, PhaseDragonAttack, g.Phase())
}

func dragonFace(dragon string, face DragonFace) DragonFaceEntry {
	return DragonFaceEntry{Dragon: dragon, Face: face}
}

func TestDragonCandidatesMatrix(t *testing.T) {
	red := &Dragon{ID: "red", Kind: DragonElemental, Elements: []Element{Fire}}
	red2 := &Dragon{ID: "red2", Kind: DragonElemental, Elements: []Element{Fire}}
	blue := &Dragon{ID: "blue", Kind: DragonElemental, Elements: []Element{Air}}
	steam := &Dragon{ID: "steam", Kind: DragonHybrid, Elements: []Element{Fire, Water}}
	steam2 := &Dragon{ID: "steam2", Kind: DragonHybrid, Elements: []Element{Fire, Water}}
	gale := &Dragon{ID: "gale", Kind: DragonHybrid, Elements: []Element{Air, Water}}
	bone := &Dragon{ID: "bone", Kind: DragonIvory}
	ember := &Dragon{ID: "ember", Kind: DragonIvoryHybrid, Elements: []Element{Fire}}
	wyrm := &Dragon{ID: "wyrm", Kind: DragonWhite}

	cases := []struct {
		name    string
		att     *Dragon
		present []*Dragon
		want    []string
	}{
		{"elemental hunts unshared elementals", red, []*Dragon{red, blue}, []string{"blue"}},
		{"elemental ignores its own element", red, []*Dragon{red, red2}, nil},
		{"elemental ignores hybrids", red, []*Dragon{red, gale}, nil},
		{"hybrid hunts different hybrids", steam, []*Dragon{steam, gale}, []string{"gale"}},
		{"hybrid ignores its twin", steam, []*Dragon{steam, steam2}, nil},
		{"hybrid falls back to unshared elementals", steam, []*Dragon{steam, blue}, []string{"blue"}},
		{"hybrid fallback skips shared elementals", steam, []*Dragon{steam, red}, nil},
		{"ivory attacks only the army", bone, []*Dragon{bone, red, gale, wyrm}, nil},
		{"ivory hybrid hunts unshared dragons", ember, []*Dragon{ember, red, blue, gale}, []string{"blue", "gale"}},
		{"white hunts everything but ivory", wyrm, []*Dragon{wyrm, red, steam, ember, bone}, []string{"ember", "red", "steam"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dragonCandidates(tc.att, tc.present))
		})
	}
}

func TestDragonAttackResolvesSimultaneously(t *testing.T) {
	g := newTestGame(t, dragonSetup(data.SetupDragon{ID: "d1", Dragon: "red", Summoner: "p2", Terrain: "t1"}))
	toDragonPhase(t, g)

	_, err := g.CompletePhase()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "have not finished attacking")

	pending := g.AwaitedRoll()
	assert.Nil(t, pending, "dragon dice are reported, not requested as a unit roll")

	_, err = g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceClaw)}, nil)
	require.NoError(t, err)

	pending = g.AwaitedRoll()
	require.NotNil(t, pending)
	assert.Equal(t, "melee+missile+save", pending.Purpose.String())

	events, err := g.SubmitDragonResponse([]RollEntry{
		face("a1", "melee"), face("a2", "save"), read("a3", "id", "save"),
	})
	require.NoError(t, err)
	assert.Empty(t, events)

	// 6 claw damage against 3 saves: three health of casualties.
	_, err = g.SubmitKills([]string{"a1", "a3"})
	require.NoError(t, err)

	d := g.state.Dragons["d1"]
	assert.Equal(t, "t1", d.Terrain, "one melee point does not slay a 5-health dragon")
	assert.Len(t, g.state.ArmyUnits("p1/home"), 1)
	assert.Len(t, g.state.Zones.UnitsIn(PlayerZone(ZoneDUA, "p1")), 2)

	_, err = g.CompletePhase()
	require.NoError(t, err)
	assert.Equal(t, PhaseSpeciesAbilities, g.Phase())
}

func TestWhiteBreathCanWipeTheArmy(t *testing.T) {
	g := newTestGame(t, dragonSetup(data.SetupDragon{ID: "w1", Dragon: "wyrm", Summoner: "p2", Terrain: "t1"}))
	toDragonPhase(t, g)

	_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("w1", FaceBreath)}, nil)
	require.NoError(t, err)

	// 10 breath against 4 total health: everything dies, no response left.
	_, err = g.SubmitKills([]string{"a1", "a2"})
	assert.ErrorContains(t, err, "does not cover")
	_, err = g.SubmitKills([]string{"a1", "a2", "a3"})
	require.NoError(t, err)

	assert.Empty(t, g.state.ArmyUnits("p1/home"))
	assert.Equal(t, "t1", g.state.Dragons["w1"].Terrain)
	_, err = g.CompletePhase()
	require.NoError(t, err)
}

func TestFireBreathBuriesFailedSaves(t *testing.T) {
	g := newTestGame(t, dragonSetup(data.SetupDragon{ID: "d1", Dragon: "red", Summoner: "p2", Terrain: "t1"}))
	toDragonPhase(t, g)

	_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceBreath)}, nil)
	require.NoError(t, err)

	// 5 breath beats the army's 4 total health.
	_, err = g.SubmitKills([]string{"a1", "a2", "a3"})
	require.NoError(t, err)

	pending := g.AwaitedRoll()
	require.NotNil(t, pending)
	assert.ElementsMatch(t, []string{"a1", "a2", "a3"}, pending.Units)

	_, err = g.SubmitSaveRoll([]RollEntry{
		face("a1", "save"), face("a2", "melee"), face("a3", "id"),
	})
	require.NoError(t, err)

	zone, _ := g.state.Zones.ZoneOf("a1")
	assert.Equal(t, PlayerZone(ZoneDUA, "p1"), zone)
	zone, _ = g.state.Zones.ZoneOf("a2")
	assert.Equal(t, PlayerZone(ZoneBUA, "p1"), zone, "a failed bury save goes past the DUA")
	zone, _ = g.state.Zones.ZoneOf("a3")
	assert.Equal(t, PlayerZone(ZoneDUA, "p1"), zone)
}

func TestDeathBreathForbidsIDResults(t *testing.T) {
	setup := dragonSetup(data.SetupDragon{ID: "d1", Dragon: "black", Summoner: "p2", Terrain: "t1"})
	setup.Players[0].Armies[0].Units = append(setup.Players[0].Armies[0].Units,
		data.SetupUnit{ID: "a4", Unit: "champion"})
	g := newTestGame(t, setup)
	toDragonPhase(t, g)

	_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceBreath)}, nil)
	require.NoError(t, err)

	// 5 breath over healths 1+1+2+3: only 2+3 covers it exactly.
	_, err = g.SubmitKills([]string{"a3", "a4"})
	require.NoError(t, err)

	assert.True(t, g.effects.IDForbidden(armyTarget("p1/home")))

	// The survivors' id faces count for nothing under the death breath; the
	// suppressed face is accepted without a reading.
	_, err = g.SubmitDragonResponse([]RollEntry{face("a1", "melee"), face("a2", "id")})
	require.NoError(t, err)
	assert.Equal(t, "t1", g.state.Dragons["d1"].Terrain)
	_, err = g.CompletePhase()
	require.NoError(t, err)
}

func TestTreasurePromotesBeforeTheResponse(t *testing.T) {
	setup := dragonSetup(data.SetupDragon{ID: "d1", Dragon: "red", Summoner: "p2", Terrain: "t1"})
	setup.Players[0].DUA = []data.SetupUnit{{ID: "a9", Unit: "veteran"}}
	g := newTestGame(t, setup)
	toDragonPhase(t, g)

	_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceTreasure)}, nil)
	require.NoError(t, err)

	_, err = g.SubmitPromotions([]PromotionPair{{Unit: "a1", Replacement: "a9"}, {Unit: "a2", Replacement: "a9"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allows 1 promotions")

	_, err = g.SubmitPromotions([]PromotionPair{{Unit: "a1", Replacement: "a9"}})
	require.NoError(t, err)

	zone, _ := g.state.Zones.ZoneOf("a9")
	assert.Equal(t, ArmyZone("p1", "home"), zone)

	pending := g.AwaitedRoll()
	require.NotNil(t, pending)
	assert.ElementsMatch(t, []string{"a2", "a3", "a9"}, pending.Units, "the promoted die answers the dragon")

	_, err = g.SubmitDragonResponse([]RollEntry{
		face("a2", "save"), face("a3", "save"), face("a9", "save"),
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", g.state.Dragons["d1"].Terrain)
}

func TestDragonDesignations(t *testing.T) {
	g := newTestGame(t, dragonSetup(
		data.SetupDragon{ID: "b1", Dragon: "blue", Summoner: "p2", Terrain: "t1"},
		data.SetupDragon{ID: "g1", Dragon: "green", Summoner: "p2", Terrain: "t1"},
		data.SetupDragon{ID: "r1", Dragon: "red", Summoner: "p2", Terrain: "t1"},
	))
	toDragonPhase(t, g)

	// Faces are premature while designations are owed.
	_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("r1", FaceClaw)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not at that step")

	_, err = g.DesignateDragonTargets(map[string]string{"r1": "b1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must cover exactly the 3 contested dragons")

	_, err = g.DesignateDragonTargets(map[string]string{"r1": "army", "b1": "g1", "g1": "b1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dragon r1 cannot target army")

	_, err = g.DesignateDragonTargets(map[string]string{"r1": "b1", "b1": "g1", "g1": "r1"})
	require.NoError(t, err)

	_, err = g.SubmitDragonFaces([]DragonFaceEntry{
		dragonFace("r1", FaceJaws),
		dragonFace("b1", FaceClaw),
		dragonFace("g1", FaceTail),
	}, []DragonFaceEntry{dragonFace("g1", FaceClaw)})
	require.NoError(t, err)

	// No dragon went for the army; it still answers with its roll.
	events, err := g.SubmitDragonResponse([]RollEntry{
		face("a1", "save"), face("a2", "save"), face("a3", "save"),
	})
	require.NoError(t, err)

	var slain []string
	for _, e := range events {
		if s, ok := e.(*DragonSlainEvent); ok {
			slain = append(slain, s.Dragon)
		}
	}
	// b1 took 12 jaws, past 5 saves and 5 health; g1 took 6, r1 took 9.
	assert.Equal(t, []string{"b1"}, slain)
	assert.Empty(t, g.state.Dragons["b1"].Terrain)
	assert.Equal(t, "t1", g.state.Dragons["g1"].Terrain)
	assert.Equal(t, "t1", g.state.Dragons["r1"].Terrain)
}

func TestDragonFacesValidation(t *testing.T) {
	setup := dragonSetup(data.SetupDragon{ID: "d1", Dragon: "red", Summoner: "p2", Terrain: "t1"})
	setup.Players[0].Armies[0].Units = append(setup.Players[0].Armies[0].Units,
		data.SetupUnit{ID: "a4", Unit: "champion"})
	g := newTestGame(t, setup)
	toDragonPhase(t, g)

	_, err := g.SubmitDragonFaces(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one face")

	_, err = g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("dX", FaceClaw)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dX is not attacking")

	_, err = g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceClaw), dragonFace("d1", FaceClaw)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "d1 reported twice")

	_, err = g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceClaw)},
		[]DragonFaceEntry{dragonFace("d1", FaceClaw)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unused re-roll for dragon d1")

	_, err = g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceTail)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rolled a tail and must re-roll")

	// The failed submissions left nothing behind: the tally restarts clean.
	_, err = g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceTail)},
		[]DragonFaceEntry{dragonFace("d1", FaceClaw)})
	require.NoError(t, err)

	_, err = g.SubmitDragonResponse([]RollEntry{
		face("a1", "save"), face("a2", "save"), read("a3", "id", "save"), face("a4", "melee"),
	})
	require.NoError(t, err)

	// Tail 3 plus claw 6 against 4 saves: exactly 5 damage, covered by 2+3.
	_, err = g.SubmitKills([]string{"a3", "a4"})
	require.NoError(t, err)
	assert.Len(t, g.state.ArmyUnits("p1/home"), 2)
}

func TestDragonDamageAllocation(t *testing.T) {
	g := newTestGame(t, dragonSetup(
		data.SetupDragon{ID: "r1", Dragon: "red", Summoner: "p2", Terrain: "t1"},
		data.SetupDragon{ID: "r2", Dragon: "red", Summoner: "p2", Terrain: "t1"},
	))
	toDragonPhase(t, g)

	_, err := g.SubmitDragonFaces([]DragonFaceEntry{
		dragonFace("r1", FaceClaw), dragonFace("r2", FaceWing),
	}, nil)
	require.NoError(t, err)

	_, err = g.SubmitDragonResponse([]RollEntry{
		face("a1", "melee"), face("a2", "melee"), read("a3", "id", "melee"),
	})
	require.NoError(t, err)

	// Two dragons and a 4-point pool: the split is the player's call.
	_, err = g.SubmitKills([]string{"a1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not waiting on casualties")

	_, err = g.AllocateDragonDamage([]DragonDamage{{Dragon: "rX", Points: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rX is not at t1")

	_, err = g.AllocateDragonDamage([]DragonDamage{{Dragon: "r1", Points: -1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative damage")

	_, err = g.AllocateDragonDamage([]DragonDamage{{Dragon: "r1", Points: 3}, {Dragon: "r2", Points: 3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "allocated 6, but the response scored 4")

	// 3 points on r1, 1 wasted.
	events, err := g.AllocateDragonDamage([]DragonDamage{{Dragon: "r1", Points: 3}})
	require.NoError(t, err)
	assert.Empty(t, events)

	// 11 dragon damage, no saves: the whole army falls.
	events, err = g.SubmitKills([]string{"a1", "a2", "a3"})
	require.NoError(t, err)

	var winged []string
	for _, e := range events {
		if w, ok := e.(*DragonWingedEvent); ok {
			winged = append(winged, w.Dragon)
		}
	}
	assert.Equal(t, []string{"r2"}, winged, "a surviving wing roller departs")
	assert.Equal(t, "t1", g.state.Dragons["r1"].Terrain)
	assert.Empty(t, g.state.Dragons["r2"].Terrain)
}

func TestBellyForfeitsTheAutomaticSaves(t *testing.T) {
	newBellyGame := func(t *testing.T) *Game {
		setup := &data.Setup{
			Players: []data.SetupPlayer{
				{Name: "p1", Armies: []data.SetupArmy{{Name: "home", Terrain: "t1", Units: []data.SetupUnit{
					{ID: "s1", Unit: "smiter"}, {ID: "s2", Unit: "digger"},
				}}}, DUA: []data.SetupUnit{{ID: "s9", Unit: "ogre"}}},
				{Name: "p2", Armies: []data.SetupArmy{{Name: "home", Terrain: "t1", Units: []data.SetupUnit{
					{ID: "e1", Unit: "miner"},
				}}}},
			},
			Terrains: []data.SetupTerrain{{ID: "t1", Terrain: "peak", Face: 3}},
			Dragons:  []data.SetupDragon{{ID: "d1", Dragon: "green", Summoner: "p2", Terrain: "t1"}},
		}
		g := newTestGame(t, setup)
		toDragonPhase(t, g)
		return g
	}
	response := []RollEntry{face("s1", "smite"), read("s2", "id", "melee")}

	t.Run("belly up, six points slay", func(t *testing.T) {
		g := newBellyGame(t)
		_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceBelly)}, nil)
		require.NoError(t, err)
		events, err := g.SubmitDragonResponse(response)
		require.NoError(t, err)

		var slain bool
		for _, e := range events {
			if e.Type() == EventDragonSlain {
				slain = true
			}
		}
		assert.True(t, slain)
		assert.Empty(t, g.state.Dragons["d1"].Terrain)

		// The slaying army promotes one unit.
		_, err = g.SubmitPromotions([]PromotionPair{{Unit: "s2", Replacement: "s9"}})
		require.NoError(t, err)
		zone, _ := g.state.Zones.ZoneOf("s9")
		assert.Equal(t, ArmyZone("p1", "home"), zone)

		_, err = g.CompletePhase()
		require.NoError(t, err)
	})

	t.Run("belly down, the saves hold", func(t *testing.T) {
		g := newBellyGame(t)
		_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceClaw)}, nil)
		require.NoError(t, err)
		_, err = g.SubmitDragonResponse(response)
		require.NoError(t, err)

		// 6 points less the automatic 5 is 1, short of 5 health.
		_, err = g.SubmitKills([]string{"s1", "s2"})
		require.NoError(t, err, "the claw's 6 damage lands unsaved")
		assert.Equal(t, "t1", g.state.Dragons["d1"].Terrain)
	})
}

func TestDeclinedSlainPromotionStillCloses(t *testing.T) {
	setup := &data.Setup{
		Players: []data.SetupPlayer{
			{Name: "p1", Armies: []data.SetupArmy{{Name: "home", Terrain: "t1", Units: []data.SetupUnit{
				{ID: "s1", Unit: "smiter"}, {ID: "s2", Unit: "digger"},
			}}}},
			{Name: "p2", Armies: []data.SetupArmy{{Name: "home", Terrain: "t1", Units: []data.SetupUnit{
				{ID: "e1", Unit: "miner"},
			}}}},
		},
		Terrains: []data.SetupTerrain{{ID: "t1", Terrain: "peak", Face: 3}},
		Dragons:  []data.SetupDragon{{ID: "d1", Dragon: "green", Summoner: "p2", Terrain: "t1"}},
	}
	g := newTestGame(t, setup)
	toDragonPhase(t, g)

	_, err := g.SubmitDragonFaces([]DragonFaceEntry{dragonFace("d1", FaceBelly)}, nil)
	require.NoError(t, err)
	_, err = g.SubmitDragonResponse([]RollEntry{face("s1", "smite"), read("s2", "id", "melee")})
	require.NoError(t, err)

	_, err = g.SubmitPromotions(nil)
	require.NoError(t, err)
	_, err = g.CompletePhase()
	require.NoError(t, err)
	assert.Equal(t, PhaseSpeciesAbilities, g.Phase())
}
