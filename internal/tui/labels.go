// internal/tui/labels.go
//
// UI text in every supported language. Missing languages fall back to English.

package tui

import (
	"github.com/figrac0/quantum-game/internal/game"
	"github.com/figrac0/quantum-game/internal/locale"
)

// labels is the UI text of one language.
type labels struct {
	Title      string
	Intro      string
	Rules      []string
	PressStart string

	Level string
	Score string
	Lives string
	Time  string
	Hint  string

	Correct string
	Wrong   string

	Finished       map[game.FinishReason]string
	CorrectAnswers string
	WrongAnswers   string
	Accuracy       string
	TotalTime      string
	FinalScore     string
	Completed      string
	PlayAgain      string
}

var texts = map[locale.Code]labels{
	locale.English: {
		Title: "Quantum Game",
		Intro: "A JavaScript quiz. Drop the right tokens into the blanks of each snippet.",
		Rules: []string{
			"Goal: complete as many snippets as you can.",
			"Time: 60 seconds for the whole game.",
			"Lives: 3. A wrong answer costs a life and 50 points.",
			"Points: 100 × level for every correct answer.",
		},
		PressStart: "Press enter to start",
		Level:      "Level",
		Score:      "Score",
		Lives:      "Lives",
		Time:       "Time",
		Hint:       "Hint",
		Correct:    "🎉 Correct!",
		Wrong:      "❌ Wrong, try again!",
		Finished: map[game.FinishReason]string{
			game.ReasonCompleted:  "🏆 All challenges completed!",
			game.ReasonOutOfLives: "💔 Out of lives",
			game.ReasonOutOfTime:  "⏰ Time is up",
		},
		CorrectAnswers: "Correct answers",
		WrongAnswers:   "Wrong answers",
		Accuracy:       "Accuracy",
		TotalTime:      "Total time",
		FinalScore:     "Final score",
		Completed:      "Levels completed",
		PlayAgain:      "Press enter to play again",
	},
	locale.Russian: {
		Title: "Квантовая игра",
		Intro: "Игра на знание JavaScript. Перетащите правильные элементы в пропуски кода.",
		Rules: []string{
			"Цель: правильно заполнить как можно больше фрагментов.",
			"Время: у вас 60 секунд на всю игру.",
			"Жизни: 3. Ошибка стоит жизни и 50 очков.",
			"Очки: за каждый правильный ответ 100 × уровень.",
		},
		PressStart: "Нажмите enter, чтобы начать",
		Level:      "Уровень",
		Score:      "Очки",
		Lives:      "Жизни",
		Time:       "Время",
		Hint:       "Подсказка",
		Correct:    "🎉 Верно!",
		Wrong:      "❌ Неправильно, попробуйте еще!",
		Finished: map[game.FinishReason]string{
			game.ReasonCompleted:  "🏆 Все задания пройдены!",
			game.ReasonOutOfLives: "💔 Жизни закончились",
			game.ReasonOutOfTime:  "⏰ Время вышло",
		},
		CorrectAnswers: "Правильных ответов",
		WrongAnswers:   "Неправильных ответов",
		Accuracy:       "Точность",
		TotalTime:      "Общее время",
		FinalScore:     "Финальный счет",
		Completed:      "Пройдено уровней",
		PlayAgain:      "Нажмите enter, чтобы играть снова",
	},
}

// textsFor returns the labels for c, falling back to English.
func textsFor(c locale.Code) labels {
	if l, ok := texts[c]; ok {
		return l
	}
	return texts[locale.English]
}
