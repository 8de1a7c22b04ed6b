// Package app owns per-session state and the controller that moves a
// session between screens.
package app

import (
	"math/rand"
	"time"

	"flashdeck/internal/models"
	"flashdeck/internal/navigation"
	"flashdeck/internal/quiz"
)

type Options struct {
	BatchSize        int
	QuizDefaultCount int
	HistoryLimit     int
	IdleTTL          time.Duration
	// NewRand seeds each session's quiz engine. Nil uses the clock.
	NewRand func() *rand.Rand
}

func (o Options) withDefaults() Options {
	if o.BatchSize < 1 {
		o.BatchSize = DefaultBatchSize
	}
	if o.QuizDefaultCount < 1 {
		o.QuizDefaultCount = 10
	}
	if o.HistoryLimit < 1 {
		o.HistoryLimit = navigation.DefaultHistoryLimit
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = DefaultIdleTTL
	}
	return o
}

// State is everything one session owns. Only the Controller mutates it,
// and only while the registry holds the session lock.
type State struct {
	ID            string
	Decks         map[string]models.Deck
	CurrentDeck   string
	Path          string
	History       *navigation.History
	Window        *Window
	Quiz          *quiz.Engine
	Prefs         models.DisplayPrefs
	ImportPending bool

	screen  models.Screen
	version uint64
}

func NewState(id string, decks map[string]models.Deck, prefs models.DisplayPrefs, opts Options) *State {
	opts = opts.withDefaults()
	if decks == nil {
		decks = make(map[string]models.Deck)
	}
	var rng *rand.Rand
	if opts.NewRand != nil {
		rng = opts.NewRand()
	}
	return &State{
		ID:      id,
		Decks:   decks,
		Path:    "/",
		History: navigation.NewHistory(opts.HistoryLimit),
		Window:  NewWindow(opts.BatchSize),
		Quiz:    quiz.NewEngine(quiz.DefaultConfig(opts.QuizDefaultCount), rng),
		Prefs:   prefs.Normalize(),
	}
}
