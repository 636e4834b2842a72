package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// seedCatalog writes a complete minimal catalog into dir.
func seedCatalog(t *testing.T, dir string) {
	t.Helper()
	writeYAML(t, dir, "species.yaml", `
- id: elf
  name: Elves
  elements: [air, water]
  abilities:
    - name: tide_ward
      requires: "'water' in army.terrain_elements"
      effect:
        target: army
        behavior: modifier
        op: add
        result: save
        magnitude: 2
        duration: owners_next_turn
`)
	writeYAML(t, dir, "units.yaml", `
- id: grunt
  name: Grunt
  species: elf
  health: 1
  faces:
    - kind: id
    - kind: maneuver
    - kind: melee
    - kind: missile
    - kind: magic
    - kind: save
- id: flier
  name: Flier
  species: elf
  health: 1
  auto_saves: 1
  faces:
    - kind: id
    - kind: sai
      sai: fly
    - kind: melee
    - kind: save
    - kind: maneuver
    - kind: missile
`)
	writeYAML(t, dir, "terrains.yaml", `
- id: coast
  name: Coast
  elements: [air, water]
  faces: [melee, missile, melee, magic, missile, magic, melee]
  eighth_face: city
`)
	writeYAML(t, dir, "dragons.yaml", `
- id: red
  name: Red
  kind: elemental
  elements: [fire]
  health: 5
`)
	writeYAML(t, dir, "spells.yaml", `
- id: haste
  name: Haste
  element: air
  cost: 2
  effect:
    target: army
    behavior: modifier
    op: add
    result: maneuver
    magnitude: 2
    duration: owners_next_turn
`)
	writeYAML(t, dir, "sais.yaml", `
- id: fly
  name: Fly
  choice: true
  yields:
    - purpose: maneuver
      result: maneuver
    - purpose: save
      result: save
`)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	seedCatalog(t, dir)

	c, err := NewLoader([]string{dir}).LoadCatalog()
	require.NoError(t, err)

	flier, err := c.Unit("flier")
	require.NoError(t, err)
	assert.Equal(t, 1, flier.AutoSaves)
	require.Len(t, flier.Faces, 6)
	assert.Equal(t, "sai", flier.Faces[1].Kind)
	assert.Equal(t, "fly", flier.Faces[1].SAI)

	elf, err := c.Species("elf")
	require.NoError(t, err)
	require.Len(t, elf.Abilities, 1)
	assert.Equal(t, "tide_ward", elf.Abilities[0].Name)
	assert.Equal(t, 2, elf.Abilities[0].Effect.Magnitude)

	coast, err := c.Terrain("coast")
	require.NoError(t, err)
	assert.Equal(t, "city", coast.EighthFace)
	assert.Len(t, coast.Faces, 7)

	haste, err := c.Spell("haste")
	require.NoError(t, err)
	assert.Equal(t, 2, haste.Cost)
	assert.Equal(t, "owners_next_turn", haste.Effect.Duration)

	fly, err := c.SAI("fly")
	require.NoError(t, err)
	assert.True(t, fly.Choice)
}

func TestLoadCatalogWantsEveryFile(t *testing.T) {
	dir := t.TempDir()
	seedCatalog(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "sais.yaml")))

	_, err := NewLoader([]string{dir}).LoadCatalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sais.yaml")
}

func TestLoaderFirstDirectoryWins(t *testing.T) {
	base := t.TempDir()
	seedCatalog(t, base)
	override := t.TempDir()
	writeYAML(t, override, "units.yaml", `
- id: grunt
  name: House Grunt
  species: elf
  health: 1
  faces:
    - kind: id
    - kind: melee
    - kind: melee
    - kind: melee
    - kind: save
    - kind: save
`)

	c, err := NewLoader([]string{override, base}).LoadCatalog()
	require.NoError(t, err)

	grunt, err := c.Unit("grunt")
	require.NoError(t, err)
	assert.Equal(t, "House Grunt", grunt.Name)

	// The override file replaces the whole section.
	_, err = c.Unit("flier")
	require.Error(t, err)

	// Sections without an override still come from the base directory.
	_, err = c.Species("elf")
	require.NoError(t, err)
}

func TestLoadCatalogRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	seedCatalog(t, dir)
	writeYAML(t, dir, "dragons.yaml", "- id: [unclosed")

	_, err := NewLoader([]string{dir}).LoadCatalog()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestLoadSetup(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "game.yaml", `
name: demo
players:
  - name: p1
    armies:
      - name: home
        terrain: t1
        units:
          - id: a1
            unit: grunt
    reserve:
      - id: r1
        unit: grunt
  - name: p2
    armies:
      - name: home
        terrain: t1
        units:
          - id: e1
            unit: grunt
terrains:
  - id: t1
    terrain: coast
    face: 3
dragons:
  - id: d1
    dragon: red
    summoner: p1
`)
	l := NewLoader([]string{dir})

	check := func(t *testing.T, s *Setup) {
		t.Helper()
		assert.Equal(t, "demo", s.Name)
		require.Len(t, s.Players, 2)
		assert.Equal(t, "p1", s.Players[0].Name)
		require.Len(t, s.Players[0].Armies, 1)
		assert.Equal(t, "t1", s.Players[0].Armies[0].Terrain)
		require.Len(t, s.Players[0].Reserve, 1)
		require.Len(t, s.Terrains, 1)
		assert.Equal(t, 3, s.Terrains[0].Face)
		require.Len(t, s.Dragons, 1)
		assert.Equal(t, "p1", s.Dragons[0].Summoner)
	}

	t.Run("by reference through the hierarchy", func(t *testing.T) {
		s, err := l.LoadSetup("game.yaml")
		require.NoError(t, err)
		check(t, s)
	})

	t.Run("by direct path", func(t *testing.T) {
		s, err := l.LoadSetup(filepath.Join(dir, "game.yaml"))
		require.NoError(t, err)
		check(t, s)
	})

	t.Run("missing reference", func(t *testing.T) {
		_, err := l.LoadSetup("nope.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not find or open")
	})
}
