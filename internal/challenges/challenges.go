// internal/challenges/challenges.go
//
// Challenge catalog loading for the game engine.
//
// Responsibilities:
//   - Load the catalog from a YAML file named by CHALLENGES_FILE, or fall back
//     to the catalog embedded in the assets package.
//   - Fill in element kinds the file leaves out (see game.KindForValue).
//   - Validate everything through game.NewCatalog.
//
// File format:
//
//	challenges:
//	  - level: 1
//	    title: "..."
//	    code: "return a ___ b;"
//	    slots:    [{ id: s1, correct: "+" }]
//	    elements: [{ id: e1, value: "+" }, { id: e2, value: "-" }]
//	    hint: "..."
//
// Initialization is run once (sync.Once); Parse and LoadFile are free of
// global state and are what tests and the `challenges --validate` command use.

package challenges

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/figrac0/quantum-game/assets"
	"github.com/figrac0/quantum-game/internal/game"
)

// EnvFile names the environment variable that overrides the embedded catalog.
const EnvFile = "CHALLENGES_FILE"

type document struct {
	Challenges []game.Challenge `yaml:"challenges"`
}

var (
	initOnce   sync.Once
	catalog    *game.Catalog
	source     string
	initialErr error
)

// Init loads the catalog exactly once, from path when non-empty, then from
// $CHALLENGES_FILE, then from the embedded default.
func Init(path string) error {
	initOnce.Do(func() {
		if path == "" {
			path = os.Getenv(EnvFile)
		}
		if path != "" {
			catalog, initialErr = LoadFile(path)
			source = path
			return
		}
		catalog, initialErr = Default()
		source = "embedded"
	})
	return initialErr
}

// Catalog returns the catalog loaded by Init, or nil before a successful Init.
func Catalog() *game.Catalog {
	return catalog
}

// Default parses the embedded catalog.
func Default() (*game.Catalog, error) {
	b, err := assets.Challenges()
	if err != nil {
		return nil, fmt.Errorf("challenges: read embedded catalog: %w", err)
	}
	return Parse(b)
}

// LoadFile parses a catalog file from disk.
func LoadFile(path string) (*game.Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("challenges: %w", err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected
// so a typo in a file does not silently drop data.
func Parse(b []byte) (*game.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("challenges: decode: %w", err)
	}
	if len(doc.Challenges) == 0 {
		return nil, errors.New("challenges: catalog is empty")
	}
	for i := range doc.Challenges {
		for j := range doc.Challenges[i].Elements {
			el := &doc.Challenges[i].Elements[j]
			if el.Kind == "" {
				el.Kind = game.KindForValue(el.Value)
			}
		}
	}
	c, err := game.NewCatalog(doc.Challenges)
	if err != nil {
		return nil, fmt.Errorf("challenges: %w", err)
	}
	return c, nil
}

// Stats describes the loaded catalog: where it came from, how many levels,
// and how many slots in total.
func Stats() (src string, levels int, slots int) {
	if catalog == nil {
		return source, 0, 0
	}
	for _, ch := range catalog.All() {
		slots += len(ch.Slots)
	}
	return source, catalog.Len(), slots
}
