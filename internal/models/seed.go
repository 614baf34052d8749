package models

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultSeed []byte

type seedFile struct {
	Photos []PhotoRecord `yaml:"photos"`
}

// DefaultPhotos returns the bundled catalog.
func DefaultPhotos() []PhotoRecord {
	photos, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded photo seed: %v", err))
	}
	return photos
}

// LoadSeed reads a YAML seed file replacing the bundled catalog. An empty path returns the bundled catalog.
func LoadSeed(path string) ([]PhotoRecord, error) {
	if path == "" {
		return DefaultPhotos(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed document. Every record needs an id and a declared category.
func ParseSeed(data []byte) ([]PhotoRecord, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	for i, p := range seed.Photos {
		if p.ID == "" {
			return nil, fmt.Errorf("seed photo %d: missing id", i)
		}
		if p.Category == "" {
			seed.Photos[i].Category = CategoryAll
			continue
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("seed photo %s: unknown category %q", p.ID, p.Category)
		}
	}
	return seed.Photos, nil
}
