package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCrossChecks(t *testing.T) {
	species := []SpeciesDefinition{{ID: "elf", Name: "Elves", Elements: []string{"air"}}}
	goodFaces := []FaceIcon{
		{Kind: "id"}, {Kind: "melee"}, {Kind: "save"},
		{Kind: "maneuver"}, {Kind: "missile"}, {Kind: "magic"},
	}
	units := []UnitDefinition{{ID: "grunt", Name: "Grunt", Species: "elf", Health: 1, Faces: goodFaces}}
	terrains := []TerrainDefinition{{
		ID: "coast", Name: "Coast", Elements: []string{"air"},
		Faces:      []string{"melee", "missile", "melee", "magic", "missile", "magic", "melee"},
		EighthFace: "city",
	}}

	cases := []struct {
		name     string
		units    []UnitDefinition
		terrains []TerrainDefinition
		spells   []SpellDefinition
		want     string
	}{
		{"unit of an unknown species",
			[]UnitDefinition{{ID: "orcling", Species: "orc", Health: 1, Faces: goodFaces}},
			terrains, nil, `unknown species definition "orc"`},
		{"unit without health",
			[]UnitDefinition{{ID: "wisp", Species: "elf", Health: 0, Faces: goodFaces}},
			terrains, nil, "health must be positive"},
		{"unit with an unknown sai",
			[]UnitDefinition{{ID: "oddity", Species: "elf", Health: 1, Faces: []FaceIcon{{Kind: "sai", SAI: "sparkle"}}}},
			terrains, nil, `unknown sai definition "sparkle"`},
		{"terrain with six faces",
			units,
			[]TerrainDefinition{{ID: "stub", Faces: []string{"melee", "melee", "melee", "melee", "melee", "melee"}}},
			nil, "want 7 numbered faces"},
		{"terrain with an unknown action",
			units,
			[]TerrainDefinition{{ID: "odd", Faces: []string{"melee", "melee", "move", "melee", "melee", "melee", "melee"}}},
			nil, `unknown action kind "move"`},
		{"spell of an unknown element",
			units, terrains,
			[]SpellDefinition{{ID: "glow", Element: "light", Cost: 2}},
			`unknown element "light"`},
		{"spell without a cost",
			units, terrains,
			[]SpellDefinition{{ID: "freebie", Element: "air"}},
			"cost must be positive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(species, tc.units, tc.terrains, nil, tc.spells, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCatalogLookupMiss(t *testing.T) {
	c, err := NewCatalog(nil, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = c.Unit("nope")
	require.Error(t, err)
	var miss *UnknownDefinitionError
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, "unit", miss.Kind)
	assert.Equal(t, `unknown unit definition "nope"`, err.Error())
}

func TestCatalogExpressions(t *testing.T) {
	species := []SpeciesDefinition{{
		ID: "elf", Elements: []string{"air"},
		Abilities: []AbilityDefinition{{Name: "tide_ward", Requires: "'water' in army.terrain_elements"}},
	}}
	spells := []SpellDefinition{
		{ID: "brand", Element: "fire", Cost: 3, Requires: "'fire' in army.terrain_elements"},
		{ID: "haste", Element: "air", Cost: 2},
	}
	c, err := NewCatalog(species, nil, nil, nil, spells, nil)
	require.NoError(t, err)

	exprs := c.Expressions()
	assert.Len(t, exprs, 2)
	assert.Equal(t, "'fire' in army.terrain_elements", exprs["spell brand"])
	assert.Equal(t, "'water' in army.terrain_elements", exprs["species elf ability tide_ward"])
}
