package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	twoSlots := testChallenges()[1]

	tests := []struct {
		name    string
		answers Answers
		want    Result
	}{
		{"all correct", Answers{"s1": "?", "s2": ":"}, Result{AllCorrect: true, CorrectCount: 2}},
		{"one wrong", Answers{"s1": "?", "s2": "&&"}, Result{AllCorrect: false, CorrectCount: 1}},
		{"missing counts as wrong", Answers{"s2": ":"}, Result{AllCorrect: false, CorrectCount: 1}},
		{"empty", Answers{}, Result{}},
		{"nil", nil, Result{}},
		{"swapped", Answers{"s1": ":", "s2": "?"}, Result{}},
		{"extra keys ignored", Answers{"s1": "?", "s2": ":", "s9": "x"}, Result{AllCorrect: true, CorrectCount: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.answers, twoSlots))
		})
	}
}

func TestResolveIsExactAndPure(t *testing.T) {
	ch := testChallenges()[0]
	answers := Answers{"s1": " +"}

	assert.False(t, Resolve(answers, ch).AllCorrect, "no trimming")
	assert.Equal(t, Resolve(answers, ch), Resolve(answers, ch))
	assert.Equal(t, Answers{"s1": " +"}, answers)
	assert.Equal(t, "+", ch.Slots[0].Correct)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 100, Session{}.Accuracy())
	assert.Equal(t, 67, Session{CorrectAnswers: 2, WrongAnswers: 1}.Accuracy())
	assert.Equal(t, 0, Session{WrongAnswers: 3}.Accuracy())
	assert.Equal(t, 50, Session{CorrectAnswers: 5, WrongAnswers: 5}.Accuracy())
}

func TestElapsedAndFormatClock(t *testing.T) {
	s := Session{StartedAt: epoch, EndedAt: epoch.Add(83 * time.Second)}
	assert.Equal(t, 83*time.Second, s.Elapsed())
	assert.Zero(t, Session{StartedAt: epoch}.Elapsed())

	assert.Equal(t, "1:23", FormatClock(83))
	assert.Equal(t, "0:05", FormatClock(5))
	assert.Equal(t, "0:00", FormatClock(-4))
	assert.Equal(t, "1:00", FormatClock(60))
}
