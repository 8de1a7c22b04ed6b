package navigation

import "flashdeck/internal/models"

// BackTarget is where the back button leads from r. It is a per-screen
// policy rather than a history pop: a deep-linked card goes back to its
// deck home even if the user arrived from search. quizScope is the scope
// of the running quiz and only matters for QuizActive.
func BackTarget(r Route, quizScope models.Scope) Route {
	switch r := r.(type) {
	case DeckManager, Home:
		return DeckManager{}
	case Cards:
		return Home{DeckName: r.DeckName}
	case QuizResults:
		return Home{DeckName: r.DeckName}
	case QuizActive:
		if _, ok := quizScope.Chapter(); ok {
			return QuizConfig{DeckName: r.DeckName, Scope: quizScope}
		}
		return Home{DeckName: r.DeckName}
	case QuizConfig:
		if _, ok := r.Scope.Chapter(); ok {
			return Cards{DeckName: r.DeckName, Scope: r.Scope}
		}
		return Home{DeckName: r.DeckName}
	}
	return DeckManager{}
}

// ShowsBack reports whether the header offers a back button on r.
func ShowsBack(r Route) bool {
	switch r.(type) {
	case DeckManager, QuizResults:
		return false
	}
	return true
}
