package navigation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashdeck/internal/models"
)

func intPtr(i int) *int { return &i }

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Route
	}{
		{"root", "/", DeckManager{}},
		{"empty", "", DeckManager{}},
		{"hash root", "#/", DeckManager{}},
		{"home", "/Kanji", Home{DeckName: "Kanji"}},
		{"home with trailing slash", "/Kanji/", Home{DeckName: "Kanji"}},
		{"chapter", "/Kanji/chapter/2", Cards{DeckName: "Kanji", Scope: models.ChapterScope(2)}},
		{"card", "#/Kanji/chapter/2/card/5", Cards{DeckName: "Kanji", Scope: models.ChapterScope(2), Target: intPtr(5)}},
		{"view all", "/Kanji/view/all", Cards{DeckName: "Kanji", Scope: models.ScopeAll}},
		{"quiz config", "/Kanji/quiz/config", QuizConfig{DeckName: "Kanji", Scope: models.ScopeAll}},
		{"quiz config chapter", "/Kanji/quiz/config/chapter/1", QuizConfig{DeckName: "Kanji", Scope: models.ChapterScope(1)}},
		{"quiz active", "/Kanji/quiz/active", QuizActive{DeckName: "Kanji"}},
		{"quiz results", "/Kanji/quiz/results", QuizResults{DeckName: "Kanji"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	paths := []string{
		"/Kanji/chapter",
		"/Kanji/chapter/x",
		"/Kanji/chapter/-1",
		"/Kanji/chapter/1/card",
		"/Kanji/chapter/1/deck/2",
		"/Kanji/view",
		"/Kanji/view/some",
		"/Kanji/quiz",
		"/Kanji/quiz/unknown",
		"/Kanji/quiz/config/chapter",
		"/Kanji/quiz/active/extra",
		"/Kanji/other",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			_, err := Parse(p)
			assert.True(t, errors.Is(err, ErrUnknownRoute), "expected ErrUnknownRoute for %q, got %v", p, err)
		})
	}
}

func TestPath_RoundTrip(t *testing.T) {
	routes := []Route{
		DeckManager{},
		Home{DeckName: "Kanji"},
		Cards{DeckName: "Kanji", Scope: models.ScopeAll},
		Cards{DeckName: "Kanji", Scope: models.ChapterScope(3)},
		Cards{DeckName: "Kanji", Scope: models.ChapterScope(3), Target: intPtr(0)},
		QuizConfig{DeckName: "Kanji", Scope: models.ScopeAll},
		QuizConfig{DeckName: "Kanji", Scope: models.ChapterScope(4)},
		QuizActive{DeckName: "Kanji"},
		QuizResults{DeckName: "Kanji"},
	}
	for _, r := range routes {
		t.Run(r.Path(), func(t *testing.T) {
			got, err := Parse(r.Path())
			require.NoError(t, err)
			assert.Equal(t, r, got)
		})
	}
}

func TestCardPath(t *testing.T) {
	assert.Equal(t, "/N5/chapter/1/card/7", CardPath("N5", 1, 7))
}
