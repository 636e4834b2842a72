package data

// FaceIcon is one printed face of a unit die. Kind is one of id, maneuver,
// melee, missile, magic, save, sai; SAI names the catalog entry when kind
// is sai.
type FaceIcon struct {
	Kind string `yaml:"kind" json:"kind"`
	SAI  string `yaml:"sai,omitempty" json:"sai,omitempty"`
}

// UnitDefinition describes one unit die type.
type UnitDefinition struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Species   string     `yaml:"species"`
	Health    int        `yaml:"health"`
	Faces     []FaceIcon `yaml:"faces"`
	AutoSaves int        `yaml:"auto_saves,omitempty"` // innate save results, e.g. armored skin
}

// SpeciesDefinition groups units under a shared element set and any
// species-phase abilities. Dragonkin species promote from the Summoning
// Pool instead of the DUA.
type SpeciesDefinition struct {
	ID        string              `yaml:"id"`
	Name      string              `yaml:"name"`
	Elements  []string            `yaml:"elements"`
	Dragonkin bool                `yaml:"dragonkin,omitempty"`
	Abilities []AbilityDefinition `yaml:"abilities,omitempty"`
}

// AbilityDefinition is a species-phase ability. Requires is a CEL expression
// over the casting context; Effect describes the registered effect.
type AbilityDefinition struct {
	Name     string     `yaml:"name"`
	Requires string     `yaml:"requires,omitempty"`
	Effect   EffectSpec `yaml:"effect"`
}

// TerrainDefinition describes a terrain die: seven numbered faces each
// allowing one action kind, and the eighth-face subtype. Grant is the
// passive effect subtypes like standing stones confer while controlled.
type TerrainDefinition struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Elements   []string    `yaml:"elements"`
	Faces      []string    `yaml:"faces"`       // faces 1..7, each melee|missile|magic
	EighthFace string      `yaml:"eighth_face"` // city|tower|temple|standing_stones|grove|vortex|dragon_lair|castle
	Grant      *EffectSpec `yaml:"grant,omitempty"`
}

// DragonDefinition describes a dragon die.
type DragonDefinition struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"` // elemental|hybrid|ivory|ivory_hybrid|white
	Elements []string `yaml:"elements,omitempty"`
	Health   int      `yaml:"health"`
}

// SpellDefinition is a castable spell: element-gated, costed in magic
// results, guarded by an optional CEL predicate.
type SpellDefinition struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Element  string     `yaml:"element"`
	Cost     int        `yaml:"cost"`
	Requires string     `yaml:"requires,omitempty"`
	Effect   EffectSpec `yaml:"effect"`
}

// EffectSpec is the data-driven description of an effect a spell or ability
// registers. Behavior is modifier, kill_redirect or no_save.
type EffectSpec struct {
	Target     string `yaml:"target"`   // army|unit
	Behavior   string `yaml:"behavior"` // modifier|kill_redirect|no_save
	Op         string `yaml:"op,omitempty"`
	Result     string `yaml:"result,omitempty"`
	Magnitude  int    `yaml:"magnitude,omitempty"`
	RedirectTo string `yaml:"redirect_to,omitempty"` // zone kind for kill_redirect
	Duration   string `yaml:"duration"`              // owners_next_turn|action_end|until_rerolled|permanent
}

// SAIYield is one possible reading of a special action icon for a roll
// purpose. Purpose "any" matches every purpose.
type SAIYield struct {
	Purpose   string `yaml:"purpose"`
	Result    string `yaml:"result"`
	Count     int    `yaml:"count,omitempty"`
	PerHealth bool   `yaml:"per_health,omitempty"`
}

// SAIDefinition describes a special action icon. When Choice is set the
// roller picks which matching yield applies.
type SAIDefinition struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Choice bool       `yaml:"choice,omitempty"`
	Yields []SAIYield `yaml:"yields"`
}
