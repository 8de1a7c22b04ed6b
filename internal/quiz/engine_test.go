package quiz

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashdeck/internal/models"
)

func refs(n int) []models.CardRef {
	out := make([]models.CardRef, n)
	for i := range out {
		out[i] = models.CardRef{ChapterIndex: i / 10, CardIndex: i % 10}
	}
	return out
}

func newEngine(order Order) *Engine {
	cfg := DefaultConfig(10)
	cfg.Order = order
	return NewEngine(cfg, rand.New(rand.NewSource(42)))
}

func TestStart_ClampsToAvailable(t *testing.T) {
	e := newEngine(OrderSequential)
	require.NoError(t, e.Start(refs(4), 50))
	assert.Len(t, e.Questions(), 4)
	assert.Equal(t, 4, e.Config().Count)
	assert.Equal(t, PhaseActive, e.Phase())
}

func TestStart_ClampsToAtLeastOne(t *testing.T) {
	e := newEngine(OrderSequential)
	require.NoError(t, e.Start(refs(4), 0))
	assert.Len(t, e.Questions(), 1)
}

func TestStart_EmptyScope(t *testing.T) {
	e := newEngine(OrderRandom)
	err := e.Start(nil, 5)
	assert.True(t, errors.Is(err, ErrEmptyScope))
	assert.Equal(t, PhaseConfig, e.Phase())
}

func TestStart_SequentialTakesPrefix(t *testing.T) {
	e := newEngine(OrderSequential)
	all := refs(25)
	require.NoError(t, e.Start(all, 7))
	assert.Equal(t, all[:7], e.Questions())
}

func TestStart_RandomIsSubsetWithoutDuplicates(t *testing.T) {
	all := refs(30)
	valid := make(map[models.CardRef]bool, len(all))
	for _, r := range all {
		valid[r] = true
	}

	for seed := int64(0); seed < 20; seed++ {
		cfg := DefaultConfig(10)
		e := NewEngine(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, e.Start(all, 12))

		qs := e.Questions()
		require.Len(t, qs, 12)
		seen := map[models.CardRef]bool{}
		for _, q := range qs {
			assert.True(t, valid[q], "question %v not in scope", q)
			assert.False(t, seen[q], "duplicate question %v", q)
			seen[q] = true
		}
	}
}

func TestStart_DoesNotMutateInput(t *testing.T) {
	all := refs(10)
	orig := append([]models.CardRef(nil), all...)
	e := newEngine(OrderRandom)
	require.NoError(t, e.Start(all, 10))
	assert.Equal(t, orig, all)
}

func TestSubmit_RequiresReveal(t *testing.T) {
	e := newEngine(OrderSequential)
	require.NoError(t, e.Start(refs(2), 2))
	assert.True(t, errors.Is(e.Submit(true), ErrNotRevealed))
	require.NoError(t, e.Reveal())
	require.NoError(t, e.Submit(true))
	assert.False(t, e.Progress().Revealed)
}

func TestTransitionsOutsideActive(t *testing.T) {
	e := newEngine(OrderSequential)
	assert.True(t, errors.Is(e.Reveal(), ErrNotActive))
	assert.True(t, errors.Is(e.Submit(true), ErrNotActive))
	_, err := e.Results()
	assert.True(t, errors.Is(err, ErrNotFinished))
}

func TestFullRun_ResultsAddUp(t *testing.T) {
	e := newEngine(OrderRandom)
	require.NoError(t, e.Start(refs(9), 9))

	pattern := []bool{true, false, true, true, false, false, true, true, true}
	for i, correct := range pattern {
		_, ok := e.Current()
		require.True(t, ok, "question %d should be current", i)
		require.NoError(t, e.Reveal())
		require.NoError(t, e.Submit(correct))
	}

	assert.Equal(t, PhaseResults, e.Phase())
	_, ok := e.Current()
	assert.False(t, ok)

	res, err := e.Results()
	require.NoError(t, err)
	assert.Equal(t, 9, res.Total)
	assert.Equal(t, 6, res.Correct)
	assert.Equal(t, 3, res.Incorrect)
	assert.Equal(t, res.Total, res.Correct+res.Incorrect)

	assert.True(t, errors.Is(e.Submit(true), ErrNotActive))
}

func TestProgress(t *testing.T) {
	e := newEngine(OrderSequential)
	require.NoError(t, e.Start(refs(4), 4))
	require.NoError(t, e.Reveal())
	require.NoError(t, e.Submit(true))

	p := e.Progress()
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 1, p.Correct)
	assert.InDelta(t, 25.0, p.Percent, 0.001)
}

func TestConfigPersistsAcrossRuns(t *testing.T) {
	e := newEngine(OrderRandom)
	require.NoError(t, e.SetOrder(OrderSequential))
	e.SetScope(models.ChapterScope(2))
	require.NoError(t, e.Start(refs(3), 3))
	e.Reset()

	cfg := e.Config()
	assert.Equal(t, OrderSequential, cfg.Order)
	assert.Equal(t, models.ChapterScope(2), cfg.Scope)
	assert.Equal(t, 3, cfg.Count)
	assert.Equal(t, PhaseConfig, e.Phase())
}

func TestSetOrder_Invalid(t *testing.T) {
	e := newEngine(OrderRandom)
	assert.True(t, errors.Is(e.SetOrder("weighted"), ErrInvalidOrder))
	assert.Equal(t, OrderRandom, e.Config().Order)
}
