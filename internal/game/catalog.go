// internal/game/catalog.go
//
// Challenge catalog: validation on construction, 1-based lookup, and the
// split of a code template into text and slot segments.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// Catalog is the ordered, read-only list of challenges.
type Catalog struct {
	challenges []Challenge
}

// NewCatalog validates challenges and wraps them in a Catalog.
// Levels must run 1..n in order, every template must have one blank per
// slot, and every correct answer must be offered as an element.
func NewCatalog(challenges []Challenge) (*Catalog, error) {
	if len(challenges) == 0 {
		return nil, errors.New("catalog: no challenges")
	}
	out := make([]Challenge, len(challenges))
	for i, ch := range challenges {
		if ch.Level != i+1 {
			return nil, fmt.Errorf("catalog: challenge %d has level %d, want %d", i, ch.Level, i+1)
		}
		if err := ch.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: level %d: %w", ch.Level, err)
		}
		out[i] = ch.clone()
	}
	return &Catalog{challenges: out}, nil
}

// Len returns the number of challenges.
func (c *Catalog) Len() int { return len(c.challenges) }

// ByLevel returns the challenge for a 1-based level.
// Out-of-range levels are a caller bug and panic.
func (c *Catalog) ByLevel(level int) Challenge {
	if level < 1 || level > len(c.challenges) {
		panic(fmt.Sprintf("game: level %d outside catalog [1, %d]", level, len(c.challenges)))
	}
	return c.challenges[level-1].clone()
}

// All returns a copy of every challenge in level order.
func (c *Catalog) All() []Challenge {
	out := make([]Challenge, len(c.challenges))
	for i, ch := range c.challenges {
		out[i] = ch.clone()
	}
	return out
}

// Validate checks the invariants of a single challenge.
func (ch Challenge) Validate() error {
	if strings.TrimSpace(ch.Title) == "" {
		return errors.New("title is required")
	}
	if len(ch.Slots) == 0 {
		return errors.New("at least one slot is required")
	}
	if n := ch.BlankCount(); n != len(ch.Slots) {
		return fmt.Errorf("template has %d blanks but %d slots", n, len(ch.Slots))
	}

	values := make(map[string]struct{}, len(ch.Elements))
	elementIDs := make(map[string]struct{}, len(ch.Elements))
	for _, el := range ch.Elements {
		if el.ID == "" {
			return errors.New("element id is required")
		}
		if _, dup := elementIDs[el.ID]; dup {
			return fmt.Errorf("duplicate element id %q", el.ID)
		}
		elementIDs[el.ID] = struct{}{}
		values[el.Value] = struct{}{}
	}

	slotIDs := make(map[string]struct{}, len(ch.Slots))
	for _, s := range ch.Slots {
		if s.ID == "" {
			return errors.New("slot id is required")
		}
		if _, dup := slotIDs[s.ID]; dup {
			return fmt.Errorf("duplicate slot id %q", s.ID)
		}
		slotIDs[s.ID] = struct{}{}
		if _, ok := values[s.Correct]; !ok {
			return fmt.Errorf("slot %q answer %q is not among the elements", s.ID, s.Correct)
		}
	}
	return nil
}

// BlankCount counts blank markers in the code template.
func (ch Challenge) BlankCount() int {
	return strings.Count(ch.Code, BlankMarker)
}

// HasSlot reports whether id names one of the challenge's slots.
func (ch Challenge) HasSlot(id string) bool {
	for _, s := range ch.Slots {
		if s.ID == id {
			return true
		}
	}
	return false
}

// ElementByID looks up a candidate token.
func (ch Challenge) ElementByID(id string) (Element, bool) {
	for _, el := range ch.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}

// HasValue reports whether some element offers value.
func (ch Challenge) HasValue(value string) bool {
	for _, el := range ch.Elements {
		if el.Value == value {
			return true
		}
	}
	return false
}

// Segment is one piece of a rendered template: literal text, or a slot.
type Segment struct {
	Text   string `json:"text,omitempty"`
	SlotID string `json:"slotId,omitempty"`
}

// Segments splits the code template into text and slot pieces, assigning
// blanks to slots in declaration order.
func (ch Challenge) Segments() []Segment {
	parts := strings.Split(ch.Code, BlankMarker)
	out := make([]Segment, 0, len(parts)*2)
	for i, p := range parts {
		if p != "" {
			out = append(out, Segment{Text: p})
		}
		if i < len(parts)-1 && i < len(ch.Slots) {
			out = append(out, Segment{SlotID: ch.Slots[i].ID})
		}
	}
	return out
}

func (ch Challenge) clone() Challenge {
	cp := ch
	cp.Slots = append([]Slot(nil), ch.Slots...)
	cp.Elements = append([]Element(nil), ch.Elements...)
	return cp
}
