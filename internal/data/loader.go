package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader reads reference catalogs from the read-only data layer.
type Loader struct {
	dataDirs []string
}

// NewLoader initializes a Loader with the given data directory fallback
// hierarchy. Directories earlier in the list win.
func NewLoader(dataDirs []string) *Loader {
	return &Loader{
		dataDirs: dataDirs,
	}
}

// catalogFiles maps catalog sections to their file names.
var catalogFiles = map[string]string{
	"species":  "species.yaml",
	"units":    "units.yaml",
	"terrains": "terrains.yaml",
	"dragons":  "dragons.yaml",
	"spells":   "spells.yaml",
	"sais":     "sais.yaml",
}

// LoadCatalog reads every catalog file (first directory hit wins per file)
// and builds the indexed Catalog. All files must be present somewhere in
// the hierarchy.
func (l *Loader) LoadCatalog() (*Catalog, error) {
	var species []SpeciesDefinition
	if err := l.load(catalogFiles["species"], &species); err != nil {
		return nil, err
	}
	var units []UnitDefinition
	if err := l.load(catalogFiles["units"], &units); err != nil {
		return nil, err
	}
	var terrains []TerrainDefinition
	if err := l.load(catalogFiles["terrains"], &terrains); err != nil {
		return nil, err
	}
	var dragons []DragonDefinition
	if err := l.load(catalogFiles["dragons"], &dragons); err != nil {
		return nil, err
	}
	var spells []SpellDefinition
	if err := l.load(catalogFiles["spells"], &spells); err != nil {
		return nil, err
	}
	var sais []SAIDefinition
	if err := l.load(catalogFiles["sais"], &sais); err != nil {
		return nil, err
	}
	return NewCatalog(species, units, terrains, dragons, spells, sais)
}

// LoadSetup reads a game setup file from the hierarchy or, when the ref is
// an existing path, directly from disk.
func (l *Loader) LoadSetup(ref string) (*Setup, error) {
	var s Setup
	if _, err := os.Stat(ref); err == nil {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to open setup %s: %w", ref, err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode setup %s: %w", ref, err)
		}
		return &s, nil
	}
	if err := l.load(ref, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (l *Loader) load(ref string, target interface{}) error {
	for _, dir := range l.dataDirs {
		path := filepath.Join(dir, ref)
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			decoder := yaml.NewDecoder(f)
			if err := decoder.Decode(target); err != nil {
				return fmt.Errorf("failed to decode yaml reference %s: %w", ref, err)
			}
			return nil
		}
	}
	return fmt.Errorf("could not find or open reference %s in any available data directory", ref)
}
