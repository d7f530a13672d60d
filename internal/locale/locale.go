// internal/locale/locale.go
//
// Language preference (en/ru), loaded at startup and saved on every change.

// Package locale keeps the player's interface language and remembers it
// between runs in a small YAML file.
package locale

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Code identifies a supported language.
type Code string

const (
	English Code = "en"
	Russian Code = "ru"

	Default = English
)

// Language describes a selectable language.
type Language struct {
	Code Code
	Name string
	Flag string
}

var supported = []Language{
	{Code: English, Name: "English", Flag: "🇺🇸"},
	{Code: Russian, Name: "Русский", Flag: "🇷🇺"},
}

// ErrUnsupported is returned by Set for codes outside Supported.
var ErrUnsupported = errors.New("locale: unsupported language")

// Supported lists the selectable languages in display order.
func Supported() []Language {
	return append([]Language(nil), supported...)
}

// Lookup returns the metadata for c.
func Lookup(c Code) (Language, bool) {
	for _, l := range supported {
		if l.Code == c {
			return l, true
		}
	}
	return Language{}, false
}

type file struct {
	Language Code `yaml:"language"`
}

// Prefs is the persisted language preference. Safe for concurrent use.
type Prefs struct {
	path string

	mu      sync.Mutex
	current Code
}

// Load reads the preference at path. A missing file, or one naming an
// unsupported language, yields the default.
func Load(path string) (*Prefs, error) {
	p := &Prefs{path: path, current: Default}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locale: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("locale: decode %s: %w", path, err)
	}
	if _, ok := Lookup(f.Language); ok {
		p.current = f.Language
	}
	return p, nil
}

// Current returns the active language.
func (p *Prefs) Current() Code {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Set switches to c and saves the choice.
func (p *Prefs) Set(c Code) error {
	if _, ok := Lookup(c); !ok {
		return fmt.Errorf("%w: %q", ErrUnsupported, c)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = c
	return p.saveLocked()
}

// Toggle flips between English and Russian and returns the new language.
func (p *Prefs) Toggle() (Code, error) {
	next := Russian
	if p.Current() == Russian {
		next = English
	}
	return next, p.Set(next)
}

func (p *Prefs) saveLocked() error {
	if p.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	b, err := yaml.Marshal(file{Language: p.current})
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.path, b, 0o644); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	return nil
}
