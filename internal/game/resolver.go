// internal/game/resolver.go
//
// Drop-slot resolver. Pure: compares placed values with each slot's answer.

package game

// Answers maps slot id to the value placed in it, for the current challenge.
type Answers map[string]string

// Result is the outcome of checking a set of answers.
type Result struct {
	AllCorrect   bool `json:"allCorrect"`
	CorrectCount int  `json:"correctCount"`
}

// Resolve compares each slot's placed value with its correct answer using
// exact string equality. A missing placement counts as wrong. Resolve does
// not modify its inputs.
func Resolve(answers Answers, ch Challenge) Result {
	correct := 0
	for _, s := range ch.Slots {
		if v, ok := answers[s.ID]; ok && v == s.Correct {
			correct++
		}
	}
	return Result{
		AllCorrect:   correct == len(ch.Slots),
		CorrectCount: correct,
	}
}

func (a Answers) clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
