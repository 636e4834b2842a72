package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suderio/dragondice/internal/command"
)

func TestStateViewShowsTheBoard(t *testing.T) {
	g := testGame(t)
	out := run(t, g, "state")

	assert.Contains(t, out.Text, "Turn 1, p1, phase expire_effects")
	assert.Contains(t, out.Text, "t1 (Highland) face 3")
	assert.Contains(t, out.Text, "army p1/home")
	assert.Contains(t, out.Text, "army p2/home")
	assert.Contains(t, out.Text, "u1[trooper h1]")
	assert.Empty(t, out.Events)
}

func TestHelpForOneCommand(t *testing.T) {
	g := testGame(t)
	out := run(t, g, "help maneuver")
	assert.Contains(t, out.Text, "maneuver by: <player>")
	assert.Contains(t, out.Text, "counter-maneuver")
}

func TestHelpAllListsEveryDecision(t *testing.T) {
	g := testGame(t)
	out := run(t, g, "help all")
	for _, name := range []string{"phase", "maneuver", "action", "dragon", "reinforce", "save"} {
		assert.Contains(t, out.Text, " - "+name+":")
	}
}

func TestHelpIsPhaseAware(t *testing.T) {
	g := testGame(t)
	run(t, g, "phase done")
	run(t, g, "phase done")
	run(t, g, "phase done")

	out := run(t, g, "help")
	require.Contains(t, out.Text, "first_march_maneuver")
	assert.Contains(t, out.Text, " - maneuver:")
	assert.Contains(t, out.Text, " - skip:")
	assert.NotContains(t, out.Text, " - reinforce:")
}

func TestHelpUnknownCommand(t *testing.T) {
	g := testGame(t)
	_, err := command.Execute(parse(t, "help juggle"), g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
