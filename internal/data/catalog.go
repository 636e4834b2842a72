package data

import "fmt"

// UnknownDefinitionError reports a reference-data lookup miss. It is a
// fatal setup defect: definitions are never silently defaulted.
type UnknownDefinitionError struct {
	Kind string
	ID   string
}

func (e *UnknownDefinitionError) Error() string {
	return fmt.Sprintf("unknown %s definition %q", e.Kind, e.ID)
}

// Catalog is the fully indexed, read-only reference data set. It must be
// populated before any resolver call.
type Catalog struct {
	species  map[string]SpeciesDefinition
	units    map[string]UnitDefinition
	terrains map[string]TerrainDefinition
	dragons  map[string]DragonDefinition
	spells   map[string]SpellDefinition
	sais     map[string]SAIDefinition
}

func newCatalog() *Catalog {
	return &Catalog{
		species:  make(map[string]SpeciesDefinition),
		units:    make(map[string]UnitDefinition),
		terrains: make(map[string]TerrainDefinition),
		dragons:  make(map[string]DragonDefinition),
		spells:   make(map[string]SpellDefinition),
		sais:     make(map[string]SAIDefinition),
	}
}

// NewCatalog indexes definition lists into a Catalog and cross-checks the
// references between them.
func NewCatalog(species []SpeciesDefinition, units []UnitDefinition, terrains []TerrainDefinition, dragons []DragonDefinition, spells []SpellDefinition, sais []SAIDefinition) (*Catalog, error) {
	c := newCatalog()
	for _, s := range species {
		c.species[s.ID] = s
	}
	for _, u := range units {
		c.units[u.ID] = u
	}
	for _, t := range terrains {
		c.terrains[t.ID] = t
	}
	for _, d := range dragons {
		c.dragons[d.ID] = d
	}
	for _, s := range spells {
		c.spells[s.ID] = s
	}
	for _, s := range sais {
		c.sais[s.ID] = s
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// Species returns the species definition for id.
func (c *Catalog) Species(id string) (SpeciesDefinition, error) {
	d, ok := c.species[id]
	if !ok {
		return SpeciesDefinition{}, &UnknownDefinitionError{Kind: "species", ID: id}
	}
	return d, nil
}

// Unit returns the unit definition for id.
func (c *Catalog) Unit(id string) (UnitDefinition, error) {
	d, ok := c.units[id]
	if !ok {
		return UnitDefinition{}, &UnknownDefinitionError{Kind: "unit", ID: id}
	}
	return d, nil
}

// Terrain returns the terrain definition for id.
func (c *Catalog) Terrain(id string) (TerrainDefinition, error) {
	d, ok := c.terrains[id]
	if !ok {
		return TerrainDefinition{}, &UnknownDefinitionError{Kind: "terrain", ID: id}
	}
	return d, nil
}

// Dragon returns the dragon definition for id.
func (c *Catalog) Dragon(id string) (DragonDefinition, error) {
	d, ok := c.dragons[id]
	if !ok {
		return DragonDefinition{}, &UnknownDefinitionError{Kind: "dragon", ID: id}
	}
	return d, nil
}

// Spell returns the spell definition for id.
func (c *Catalog) Spell(id string) (SpellDefinition, error) {
	d, ok := c.spells[id]
	if !ok {
		return SpellDefinition{}, &UnknownDefinitionError{Kind: "spell", ID: id}
	}
	return d, nil
}

// SAI returns the special action icon definition for id.
func (c *Catalog) SAI(id string) (SAIDefinition, error) {
	d, ok := c.sais[id]
	if !ok {
		return SAIDefinition{}, &UnknownDefinitionError{Kind: "sai", ID: id}
	}
	return d, nil
}

// Expressions returns every CEL expression in the catalog with a
// human-readable origin, for compile-time validation.
func (c *Catalog) Expressions() map[string]string {
	out := make(map[string]string)
	for id, s := range c.spells {
		if s.Requires != "" {
			out["spell "+id] = s.Requires
		}
	}
	for id, s := range c.species {
		for _, a := range s.Abilities {
			if a.Requires != "" {
				out[fmt.Sprintf("species %s ability %s", id, a.Name)] = a.Requires
			}
		}
	}
	return out
}

// check cross-references the catalog: units name known species, unit faces
// name known SAIs, terrain faces are legal action kinds, spells cost magic
// of a real element.
func (c *Catalog) check() error {
	for id, u := range c.units {
		if _, ok := c.species[u.Species]; !ok {
			return fmt.Errorf("unit %s: %w", id, &UnknownDefinitionError{Kind: "species", ID: u.Species})
		}
		if u.Health < 1 {
			return fmt.Errorf("unit %s: health must be positive", id)
		}
		for _, f := range u.Faces {
			if f.Kind != "sai" {
				continue
			}
			if _, ok := c.sais[f.SAI]; !ok {
				return fmt.Errorf("unit %s: %w", id, &UnknownDefinitionError{Kind: "sai", ID: f.SAI})
			}
		}
	}
	for id, t := range c.terrains {
		if len(t.Faces) != 7 {
			return fmt.Errorf("terrain %s: want 7 numbered faces, got %d", id, len(t.Faces))
		}
		for i, f := range t.Faces {
			switch f {
			case "melee", "missile", "magic":
			default:
				return fmt.Errorf("terrain %s face %d: unknown action kind %q", id, i+1, f)
			}
		}
	}
	for id, s := range c.spells {
		switch s.Element {
		case "air", "death", "earth", "fire", "water":
		default:
			return fmt.Errorf("spell %s: unknown element %q", id, s.Element)
		}
		if s.Cost < 1 {
			return fmt.Errorf("spell %s: cost must be positive", id)
		}
	}
	return nil
}
