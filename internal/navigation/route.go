// Package navigation turns screen paths into typed routes and back again,
// and decides where the back button leads from each screen.
package navigation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"flashdeck/internal/models"
)

// ErrUnknownRoute is returned by Parse for paths outside the grammar.
var ErrUnknownRoute = errors.New("unknown route")

type Screen string

const (
	ScreenDeckManager Screen = "deck_manager"
	ScreenHome        Screen = "home"
	ScreenCards       Screen = "cards"
	ScreenQuizConfig  Screen = "quiz_config"
	ScreenQuiz        Screen = "quiz"
	ScreenQuizResults Screen = "quiz_results"
)

// Route is one of DeckManager, Home, Cards, QuizConfig, QuizActive or
// QuizResults.
type Route interface {
	Path() string
	Screen() Screen
	// Deck is empty for DeckManager.
	Deck() string
}

type DeckManager struct{}

type Home struct {
	DeckName string
}

// Cards is the card browser. Target is a card index inside the scoped
// chapter and is only set for deep links.
type Cards struct {
	DeckName string
	Scope    models.Scope
	Target   *int
}

type QuizConfig struct {
	DeckName string
	Scope    models.Scope
}

type QuizActive struct {
	DeckName string
}

type QuizResults struct {
	DeckName string
}

func (DeckManager) Path() string { return "/" }
func (DeckManager) Screen() Screen { return ScreenDeckManager }
func (DeckManager) Deck() string { return "" }
func (r Home) Path() string { return "/" + r.DeckName }
func (Home) Screen() Screen { return ScreenHome }
func (r Home) Deck() string { return r.DeckName }
func (Cards) Screen() Screen { return ScreenCards }
func (r Cards) Deck() string { return r.DeckName }
func (QuizConfig) Screen() Screen { return ScreenQuizConfig }
func (r QuizConfig) Deck() string { return r.DeckName }
func (r QuizActive) Path() string { return "/" + r.DeckName + "/quiz/active" }
func (QuizActive) Screen() Screen { return ScreenQuiz }
func (r QuizActive) Deck() string { return r.DeckName }
func (r QuizResults) Path() string { return "/" + r.DeckName + "/quiz/results" }
func (QuizResults) Screen() Screen { return ScreenQuizResults }
func (r QuizResults) Deck() string { return r.DeckName }

func (r Cards) Path() string {
	i, ok := r.Scope.Chapter()
	if !ok {
		return "/" + r.DeckName + "/view/all"
	}
	p := fmt.Sprintf("/%s/chapter/%d", r.DeckName, i)
	if r.Target != nil {
		p += fmt.Sprintf("/card/%d", *r.Target)
	}
	return p
}

func (r QuizConfig) Path() string {
	if i, ok := r.Scope.Chapter(); ok {
		return fmt.Sprintf("/%s/quiz/config/chapter/%d", r.DeckName, i)
	}
	return "/" + r.DeckName + "/quiz/config"
}

// CardPath is the canonical deep link of a card, without the leading '#'.
func CardPath(deck string, chapter, card int) string {
	target := card
	return Cards{DeckName: deck, Scope: models.ChapterScope(chapter), Target: &target}.Path()
}

// Segments splits a path on '/', dropping a leading '#' and empty parts.
func Segments(path string) []string {
	path = strings.TrimPrefix(path, "#")
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Parse maps a path onto its route. It does not check that the deck or
// indexes exist; that is the controller's job.
func Parse(path string) (Route, error) {
	parts := Segments(path)
	if len(parts) == 0 {
		return DeckManager{}, nil
	}
	deck := parts[0]
	rest := parts[1:]

	switch {
	case len(rest) == 0:
		return Home{DeckName: deck}, nil

	case rest[0] == "chapter" && (len(rest) == 2 || len(rest) == 4):
		chapter, err := parseIndex(rest[1])
		if err != nil {
			return nil, err
		}
		route := Cards{DeckName: deck, Scope: models.ChapterScope(chapter)}
		if len(rest) == 4 {
			if rest[2] != "card" {
				return nil, unknown(path)
			}
			card, err := parseIndex(rest[3])
			if err != nil {
				return nil, err
			}
			route.Target = &card
		}
		return route, nil

	case len(rest) == 2 && rest[0] == "view" && rest[1] == "all":
		return Cards{DeckName: deck, Scope: models.ScopeAll}, nil

	case len(rest) >= 2 && rest[0] == "quiz":
		return parseQuiz(deck, rest[1:], path)
	}
	return nil, unknown(path)
}

func parseQuiz(deck string, rest []string, path string) (Route, error) {
	switch {
	case rest[0] == "config" && len(rest) == 1:
		return QuizConfig{DeckName: deck, Scope: models.ScopeAll}, nil
	case rest[0] == "config" && len(rest) == 3 && rest[1] == "chapter":
		chapter, err := parseIndex(rest[2])
		if err != nil {
			return nil, err
		}
		return QuizConfig{DeckName: deck, Scope: models.ChapterScope(chapter)}, nil
	case rest[0] == "active" && len(rest) == 1:
		return QuizActive{DeckName: deck}, nil
	case rest[0] == "results" && len(rest) == 1:
		return QuizResults{DeckName: deck}, nil
	}
	return nil, unknown(path)
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad index %q", ErrUnknownRoute, s)
	}
	return n, nil
}

func unknown(path string) error {
	return fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}
