// internal/game/view.go
//
// Read-only projections handed to presentation layers, and the event type
// published to subscribers. Correct answers never leave the engine.

package game

import "time"

// ChallengeView is the presentation-safe form of the active challenge:
// it carries slot ids but never the correct answers.
type ChallengeView struct {
	Level    int       `json:"level"`
	Title    string    `json:"title"`
	Code     string    `json:"code"`
	Segments []Segment `json:"segments"`
	SlotIDs  []string  `json:"slots"`
	Elements []Element `json:"elements"`
	Hint     string    `json:"hint,omitempty"` // only while the hint is shown
}

// View is a read-only snapshot of a game for presentation layers.
type View struct {
	GameID      string         `json:"gameId"`
	Seq         uint64         `json:"seq"` // last event published before this view
	Phase       Phase          `json:"phase"`
	Session     Session        `json:"session"`
	CatalogLen  int            `json:"catalogLength"`
	Challenge   *ChallengeView `json:"challenge,omitempty"`
	Dropped     Answers        `json:"dropped"`
	Feedback    Feedback       `json:"feedback,omitempty"`
	HintVisible bool           `json:"hintVisible"`
	Advancing   bool           `json:"advancing"`
}

// EventType names a state change published to subscribers.
type EventType string

const (
	EventStarted         EventType = "started"
	EventTick            EventType = "tick"
	EventPlaced          EventType = "placed"
	EventSubmitted       EventType = "submitted"
	EventFeedbackCleared EventType = "feedback_cleared"
	EventAdvanced        EventType = "advanced"
	EventHint            EventType = "hint"
	EventFinished        EventType = "finished"
)

// Event is published after every state change. Seq increases by one per
// event of a game. Delivery order is not guaranteed: a timer callback and a
// command can publish concurrently, so a consumer that keeps the latest
// View must compare Seq and discard anything older than what it has.
type Event struct {
	Seq    uint64    `json:"seq"`
	Type   EventType `json:"type"`
	At     time.Time `json:"at"`
	Result *Result   `json:"result,omitempty"`
	View   View      `json:"state"`
}

// Listener receives events outside the game's lock, on the goroutine that
// caused the change. It may be called concurrently with itself and must not
// block.
type Listener func(Event)

// View renders ch for players. The hint is included only when withHint.
func (ch Challenge) View(withHint bool) *ChallengeView {
	ids := make([]string, len(ch.Slots))
	for i, s := range ch.Slots {
		ids[i] = s.ID
	}
	v := &ChallengeView{
		Level:    ch.Level,
		Title:    ch.Title,
		Code:     ch.Code,
		Segments: ch.Segments(),
		SlotIDs:  ids,
		Elements: append([]Element(nil), ch.Elements...),
	}
	if withHint {
		v.Hint = ch.Hint
	}
	return v
}
