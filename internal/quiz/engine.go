// Package quiz runs a self-graded question session over a scope of cards.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"flashdeck/internal/models"
)

var (
	ErrEmptyScope   = errors.New("quiz scope has no cards")
	ErrNotActive    = errors.New("no quiz in progress")
	ErrNotRevealed  = errors.New("answer not revealed yet")
	ErrNotFinished  = errors.New("quiz not finished")
	ErrInvalidOrder = errors.New("order must be random or sequential")
)

type Order string

const (
	OrderRandom     Order = "random"
	OrderSequential Order = "sequential"
)

type Phase string

const (
	PhaseConfig  Phase = "config"
	PhaseActive  Phase = "active"
	PhaseResults Phase = "results"
)

// Config holds the defaults for the next quiz. It survives quiz runs.
type Config struct {
	Count int          `json:"count"`
	Scope models.Scope `json:"scope"`
	Order Order        `json:"order"`
}

func DefaultConfig(count int) Config {
	if count < 1 {
		count = 1
	}
	return Config{Count: count, Scope: models.ScopeAll, Order: OrderRandom}
}

type Answer struct {
	Correct bool `json:"correct"`
}

type Results struct {
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	Incorrect    int     `json:"incorrect"`
	ScorePercent float64 `json:"score_percent"`
}

// Progress describes the running quiz for display.
type Progress struct {
	Index    int     `json:"index"`
	Total    int     `json:"total"`
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Percent  float64 `json:"percent"`
	Revealed bool    `json:"revealed"`
}

// Engine is the config -> active -> results state machine. Only Start,
// Reveal and Submit move it forward; Reset discards the session.
type Engine struct {
	config    Config
	phase     Phase
	questions []models.CardRef
	index     int
	answers   []Answer
	revealed  bool
	rng       *rand.Rand
}

// NewEngine uses rng for random selection; nil seeds from the clock.
func NewEngine(config Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{config: config, phase: PhaseConfig, rng: rng}
}

func (e *Engine) Config() Config { return e.config }
func (e *Engine) Phase() Phase { return e.phase }

func (e *Engine) SetScope(scope models.Scope) { e.config.Scope = scope }

func (e *Engine) SetCount(count int) {
	if count < 1 {
		count = 1
	}
	e.config.Count = count
}

func (e *Engine) SetOrder(order Order) error {
	if order != OrderRandom && order != OrderSequential {
		return fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}
	e.config.Order = order
	return nil
}

// ReplaceConfig swaps the defaults, used when the current deck changes.
func (e *Engine) ReplaceConfig(config Config) {
	e.config = config
	e.Reset()
}

// Start picks the questions from refs. requested is clamped to
// [1, len(refs)]; random order takes a prefix of a full shuffle so every
// subset of that size is equally likely.
func (e *Engine) Start(refs []models.CardRef, requested int) error {
	if len(refs) == 0 {
		return ErrEmptyScope
	}
	count := requested
	if count < 1 {
		count = 1
	}
	if count > len(refs) {
		count = len(refs)
	}

	pool := append([]models.CardRef(nil), refs...)
	if e.config.Order == OrderRandom {
		e.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	e.questions = pool[:count]
	e.index = 0
	e.answers = nil
	e.revealed = false
	e.phase = PhaseActive
	e.config.Count = count
	return nil
}

// Current returns the question being asked.
func (e *Engine) Current() (models.CardRef, bool) {
	if e.phase != PhaseActive || e.index >= len(e.questions) {
		return models.CardRef{}, false
	}
	return e.questions[e.index], true
}

func (e *Engine) Questions() []models.CardRef {
	return append([]models.CardRef(nil), e.questions...)
}

func (e *Engine) Reveal() error {
	if e.phase != PhaseActive {
		return ErrNotActive
	}
	e.revealed = true
	return nil
}

// Submit records the self-assessed answer for the current question and
// advances. Answers cannot be edited afterwards.
func (e *Engine) Submit(correct bool) error {
	if e.phase != PhaseActive {
		return ErrNotActive
	}
	if !e.revealed {
		return ErrNotRevealed
	}
	e.answers = append(e.answers, Answer{Correct: correct})
	e.index++
	e.revealed = false
	if e.index >= len(e.questions) {
		e.phase = PhaseResults
	}
	return nil
}

func (e *Engine) Progress() Progress {
	p := Progress{
		Index:    e.index,
		Total:    len(e.questions),
		Answered: len(e.answers),
		Correct:  countCorrect(e.answers),
		Revealed: e.revealed,
	}
	if p.Total > 0 {
		p.Percent = float64(e.index) / float64(p.Total) * 100
	}
	return p
}

func (e *Engine) Results() (Results, error) {
	if e.phase != PhaseResults {
		return Results{}, ErrNotFinished
	}
	correct := countCorrect(e.answers)
	r := Results{
		Total:     len(e.answers),
		Correct:   correct,
		Incorrect: len(e.answers) - correct,
	}
	if r.Total > 0 {
		r.ScorePercent = float64(correct) / float64(r.Total) * 100
	}
	return r, nil
}

// Reset drops the running session but keeps the config.
func (e *Engine) Reset() {
	e.phase = PhaseConfig
	e.questions = nil
	e.index = 0
	e.answers = nil
	e.revealed = false
}

func countCorrect(answers []Answer) int {
	n := 0
	for _, a := range answers {
		if a.Correct {
			n++
		}
	}
	return n
}
