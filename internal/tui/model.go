// internal/tui/model.go
//
// Bubbletea model: keys become engine commands, engine events become redraws.
// Rendering covers the rules screen, the running level and the summary.

// Package tui is a terminal front end for a single game. It renders the
// engine's View and forwards key presses as engine commands; all game
// state lives in the engine.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/figrac0/quantum-game/internal/game"
	"github.com/figrac0/quantum-game/internal/locale"
)

const eventBuffer = 32

type eventMsg game.Event

// Model is the bubbletea model.
type Model struct {
	g      *game.Game
	prefs  *locale.Prefs
	events chan game.Event
	cancel func()

	view    game.View
	slot    int // index into the active challenge's slots
	keys    keyMap
	help    help.Model
	styles  styles
	width   int
	lastErr string
}

// New wires a model to g. prefs may be nil, in which case the language is
// English and cannot be changed.
func New(g *game.Game, prefs *locale.Prefs) Model {
	m := Model{
		g:      g,
		prefs:  prefs,
		events: make(chan game.Event, eventBuffer),
		view:   g.Snapshot(),
		keys:   defaultKeys(),
		help:   help.New(),
		styles: defaultStyles(),
	}
	events := m.events
	m.cancel = g.Subscribe(func(ev game.Event) {
		select {
		case events <- ev:
		default:
			// the next event carries a full view anyway
		}
	})
	return m
}

// Close detaches the model from its game.
func (m Model) Close() { m.cancel() }

func waitForEvent(ch <-chan game.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		if msg.View.Seq >= m.view.Seq {
			m.setView(msg.View)
		}
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastErr = ""
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Language):
		if m.prefs != nil {
			if _, err := m.prefs.Toggle(); err != nil {
				log.Warn().Err(err).Msg("save language")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.view.Phase == game.PhasePlaying {
			_, err = m.g.Submit()
		} else {
			err = m.g.Start()
		}

	case key.Matches(msg, m.keys.Restart):
		err = m.g.Restart()

	case key.Matches(msg, m.keys.Hint):
		err = m.g.ToggleHint()

	case key.Matches(msg, m.keys.NextSlot):
		m.moveSlot(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSlot):
		m.moveSlot(-1)
		return m, nil

	case key.Matches(msg, m.keys.Place):
		err = m.place(int(msg.String()[0] - '1'))

	default:
		return m, nil
	}

	if err != nil {
		m.lastErr = err.Error()
	}
	m.setView(m.g.Snapshot())
	return m, nil
}

// setView installs v and keeps the slot cursor valid.
func (m *Model) setView(v game.View) {
	if v.Challenge == nil || m.view.Challenge == nil || v.Challenge.Level != m.view.Challenge.Level {
		m.slot = 0
	}
	m.view = v
}

func (m *Model) moveSlot(d int) {
	if m.view.Challenge == nil || len(m.view.Challenge.SlotIDs) == 0 {
		return
	}
	n := len(m.view.Challenge.SlotIDs)
	m.slot = ((m.slot+d)%n + n) % n
}

// place puts element i into the selected slot and moves to the next one.
func (m *Model) place(i int) error {
	ch := m.view.Challenge
	if ch == nil || i < 0 || i >= len(ch.Elements) || len(ch.SlotIDs) == 0 {
		return nil
	}
	if err := m.g.PlaceElement(ch.SlotIDs[m.slot], ch.Elements[i].ID); err != nil {
		return err
	}
	m.moveSlot(1)
	return nil
}

func (m Model) language() locale.Code {
	if m.prefs == nil {
		return locale.Default
	}
	return m.prefs.Current()
}

func (m Model) View() string {
	t := textsFor(m.language())
	var b strings.Builder

	switch m.view.Phase {
	case game.PhaseIdle:
		b.WriteString(m.styles.Title.Render("⚛ "+t.Title) + "\n\n")
		b.WriteString(t.Intro + "\n\n")
		for _, r := range t.Rules {
			b.WriteString(m.styles.Muted.Render("• "+r) + "\n")
		}
		b.WriteString("\n" + m.styles.Stat.Render(t.PressStart) + "\n")

	case game.PhaseFinished:
		b.WriteString(m.renderSummary(t))

	default:
		b.WriteString(m.renderStats(t) + "\n\n")
		b.WriteString(m.renderChallenge(t))
	}

	if m.lastErr != "" {
		b.WriteString("\n" + m.styles.Muted.Render(m.lastErr) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderStats(t labels) string {
	s := m.view.Session
	hearts := strings.Repeat("❤", s.Lives)
	parts := []string{
		fmt.Sprintf("%s %s", t.Level, m.styles.Stat.Render(fmt.Sprintf("%d/%d", s.Level, m.view.CatalogLen))),
		fmt.Sprintf("%s %s", t.Score, m.styles.Stat.Render(fmt.Sprint(s.Score))),
		fmt.Sprintf("%s %s", t.Lives, m.styles.Error.Render(hearts)),
		fmt.Sprintf("%s %s", t.Time, m.styles.Stat.Render(game.FormatClock(s.TimeRemaining))),
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderChallenge(t labels) string {
	ch := m.view.Challenge
	if ch == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(ch.Title) + "\n")

	var code strings.Builder
	slotIdx := map[string]int{}
	for i, id := range ch.SlotIDs {
		slotIdx[id] = i
	}
	for _, seg := range ch.Segments {
		if seg.SlotID == "" {
			code.WriteString(seg.Text)
			continue
		}
		val, ok := m.view.Dropped[seg.SlotID]
		if !ok {
			val = "___"
		}
		st := m.styles.Slot
		if slotIdx[seg.SlotID] == m.slot {
			st = m.styles.SlotSel
		}
		code.WriteString(st.Render("[" + val + "]"))
	}
	b.WriteString(m.styles.Code.Render(code.String()) + "\n")

	els := make([]string, len(ch.Elements))
	for i, el := range ch.Elements {
		els[i] = fmt.Sprintf("%d %s", i+1, m.styles.element(el))
	}
	b.WriteString(strings.Join(els, "   ") + "\n")

	if m.view.HintVisible && ch.Hint != "" {
		b.WriteString("\n" + m.styles.Hint.Render("💡 "+t.Hint+": "+ch.Hint) + "\n")
	}
	switch m.view.Feedback {
	case game.FeedbackCorrect:
		b.WriteString("\n" + m.styles.Success.Render(t.Correct) + "\n")
	case game.FeedbackWrong:
		b.WriteString("\n" + m.styles.Error.Render(t.Wrong) + "\n")
	}
	return b.String()
}

func (m Model) renderSummary(t labels) string {
	s := m.view.Session
	rows := [][2]string{
		{t.CorrectAnswers, fmt.Sprint(s.CorrectAnswers)},
		{t.WrongAnswers, fmt.Sprint(s.WrongAnswers)},
		{t.Accuracy, fmt.Sprintf("%d%%", s.Accuracy())},
		{t.TotalTime, game.FormatClock(int(s.Elapsed().Seconds()))},
		{t.FinalScore, fmt.Sprint(s.Score)},
		{t.Completed, fmt.Sprintf("%d/%d", s.CompletedCount, m.view.CatalogLen)},
	}
	lines := []string{m.styles.Title.Render(t.Finished[s.Reason]), ""}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-22s %s", r[0], m.styles.Stat.Render(r[1])))
	}
	lines = append(lines, "", m.styles.Muted.Render(t.PlayAgain))
	return m.styles.Summary.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

// Run starts the program on the terminal and blocks until the player quits.
func Run(g *game.Game, prefs *locale.Prefs) error {
	m := New(g, prefs)
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
