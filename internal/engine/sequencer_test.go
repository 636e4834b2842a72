package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seekPhase(s *Sequencer, p Phase) {
	for i, ph := range phaseOrder {
		if ph == p {
			s.PhaseIdx = i
			return
		}
	}
}

func TestSequencerRotation(t *testing.T) {
	s := NewSequencer()
	players := []string{"p1", "p2"}
	require.Equal(t, 1, s.Turn)
	assert.Equal(t, PhaseExpireEffects, s.Phase())
	assert.Equal(t, "p1", s.Player(players))

	s.MarchArmies[1] = "p1/home"
	s.Acted["p1/home"] = true
	s.ReserveCast = true
	s.EighthUsed["t1"] = true

	for i := 0; i < len(phaseOrder)-1; i++ {
		assert.False(t, s.next(len(players)))
	}
	assert.Equal(t, PhaseReservesRetreat, s.Phase())
	assert.True(t, s.next(len(players)))

	// A new turn starts clean for the next player.
	assert.Equal(t, 2, s.Turn)
	assert.Equal(t, PhaseExpireEffects, s.Phase())
	assert.Equal(t, "p2", s.Player(players))
	assert.Empty(t, s.MarchArmies)
	assert.Empty(t, s.Acted)
	assert.False(t, s.ReserveCast)
	assert.Empty(t, s.EighthUsed)
}

func TestSequencerMarchBinding(t *testing.T) {
	s := NewSequencer()

	err := s.bindMarchArmy("p1/home")
	assert.ErrorContains(t, err, "no march is in progress")

	seekPhase(s, PhaseFirstMarchManeuver)
	require.Equal(t, 1, s.march())
	require.NoError(t, s.bindMarchArmy("p1/home"))
	require.NoError(t, s.bindMarchArmy("p1/home"))
	err = s.bindMarchArmy("p1/far")
	assert.ErrorContains(t, err, "already marching")

	// The action sub-step shares the maneuver's binding.
	seekPhase(s, PhaseFirstMarchAction)
	require.Equal(t, 1, s.march())
	s.markActed()
	assert.True(t, s.Acted["p1/home"])

	seekPhase(s, PhaseSecondMarchManeuver)
	require.Equal(t, 2, s.march())
	bound, ok := s.marchArmy()
	assert.False(t, ok)
	assert.Empty(t, bound)
	require.NoError(t, s.bindMarchArmy("p1/far"))
	bound, ok = s.marchArmy()
	assert.True(t, ok)
	assert.Equal(t, "p1/far", bound)
}

func TestPhaseTour(t *testing.T) {
	g := newTestGame(t, baseSetup())
	require.Equal(t, PhaseExpireEffects, g.Phase())
	require.Equal(t, "p1", g.TurnPlayer())
	require.Equal(t, 1, g.TurnNumber())

	// No dragons face p1, so the dragon attack phase never surfaces.
	tour := []Phase{
		PhaseEighthFace, PhaseSpeciesAbilities,
		PhaseFirstMarchManeuver, PhaseFirstMarchAction,
		PhaseSecondMarchManeuver, PhaseSecondMarchAction,
		PhaseReservesReinforce, PhaseReservesRetreat,
		PhaseExpireEffects,
	}
	for _, p := range tour {
		advance(t, g, 1)
		assert.Equal(t, p, g.Phase())
	}
	assert.Equal(t, "p2", g.TurnPlayer())
	assert.Equal(t, 2, g.TurnNumber())
}
