package app

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"flashdeck/internal/models"
	"flashdeck/internal/navigation"
	"flashdeck/internal/quiz"
	"flashdeck/internal/repository"
	"flashdeck/internal/services"
)

// A redirect chain is at most unknown -> config -> home -> manager.
const maxRedirects = 4

// Controller is the only code that changes a session's path. Every change
// goes through HandleRoute, which re-derives the screen from the path.
type Controller struct {
	ctx    context.Context
	state  *State
	store  *repository.DeckStore
	opts   Options
	logger *zap.Logger
}

func newController(ctx context.Context, state *State, store *repository.DeckStore, opts Options, logger *zap.Logger) *Controller {
	return &Controller{ctx: ctx, state: state, store: store, opts: opts.withDefaults(), logger: logger}
}

func (c *Controller) State() *State { return c.state }

// Screen returns the last rendered screen, rendering it on first use.
func (c *Controller) Screen() models.Screen {
	if c.state.screen.Name == "" {
		return c.HandleRoute()
	}
	return c.state.screen
}

// Navigate records the current path in history and moves to path.
func (c *Controller) Navigate(path string) models.Screen {
	path = cleanPath(path)
	if c.state.Path != "" && c.state.Path != path {
		c.state.History.Push(c.state.Path)
	}
	c.state.Path = path
	return c.HandleRoute()
}

// Back follows the per-screen back policy, recording the move like any
// other navigation.
func (c *Controller) Back() models.Screen {
	target := navigation.BackTarget(c.currentRoute(), c.state.Quiz.Config().Scope)
	return c.Navigate(target.Path())
}

// HandleRoute resolves the current path, applying redirects in place,
// then runs the matching screen.
func (c *Controller) HandleRoute() models.Screen {
	route := c.resolve(c.state.Path)
	c.state.Path = route.Path()
	c.enter(route)
	return c.render(route)
}

func cleanPath(path string) string {
	path = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(path), "#"))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (c *Controller) currentRoute() navigation.Route {
	route, err := navigation.Parse(c.state.Path)
	if err != nil {
		return navigation.DeckManager{}
	}
	return route
}

func (c *Controller) resolve(path string) navigation.Route {
	route, err := navigation.Parse(path)
	if err != nil {
		c.logger.Debug("redirecting unknown path", zap.String("path", path))
		route = navigation.DeckManager{}
	}
	for i := 0; i < maxRedirects; i++ {
		next, ok := c.redirectFor(route)
		if ok {
			return route
		}
		c.logger.Debug("redirect",
			zap.String("session_id", c.state.ID),
			zap.String("from", route.Path()),
			zap.String("to", next.Path()),
		)
		route = next
	}
	return route
}

// redirectFor reports whether route can be shown as is, and where to go
// instead when it cannot.
func (c *Controller) redirectFor(route navigation.Route) (navigation.Route, bool) {
	name := route.Deck()
	if name == "" {
		return route, true
	}
	deck, ok := c.state.Decks[name]
	if !ok {
		return navigation.DeckManager{}, false
	}
	home := navigation.Home{DeckName: name}
	sameDeck := name == c.state.CurrentDeck

	switch r := route.(type) {
	case navigation.Cards:
		i, isChapter := r.Scope.Chapter()
		if !isChapter {
			return route, true
		}
		if i >= len(deck) {
			return home, false
		}
		if r.Target != nil && *r.Target >= len(deck[i].Cards) {
			return navigation.Cards{DeckName: name, Scope: r.Scope}, false
		}
	case navigation.QuizConfig:
		if i, isChapter := r.Scope.Chapter(); isChapter && i >= len(deck) {
			return home, false
		}
	case navigation.QuizActive:
		if !sameDeck || c.state.Quiz.Phase() != quiz.PhaseActive {
			scope := models.ScopeAll
			if sameDeck {
				scope = c.state.Quiz.Config().Scope
			}
			return navigation.QuizConfig{DeckName: name, Scope: scope}, false
		}
	case navigation.QuizResults:
		if !sameDeck || c.state.Quiz.Phase() != quiz.PhaseResults {
			return home, false
		}
	}
	return route, true
}

// enter updates owned state for route: switching decks resets the quiz
// defaults, leaving the browser disposes its window, leaving the quiz
// screens drops the running quiz.
func (c *Controller) enter(route navigation.Route) {
	if name := route.Deck(); name != "" && name != c.state.CurrentDeck {
		c.state.CurrentDeck = name
		c.state.Window.Dispose()
		c.state.Quiz.ReplaceConfig(quiz.DefaultConfig(c.opts.QuizDefaultCount))
	}
	if route.Screen() != navigation.ScreenCards {
		c.state.Window.Dispose()
	}

	switch r := route.(type) {
	case navigation.QuizActive, navigation.QuizResults:
	case navigation.QuizConfig:
		if c.state.Quiz.Phase() != quiz.PhaseConfig {
			c.state.Quiz.Reset()
		}
		c.state.Quiz.SetScope(r.Scope)
	case navigation.Cards:
		c.resetQuiz()
		deck := c.state.Decks[r.DeckName]
		c.state.Window.Show(r.DeckName, r.Scope, deck.Refs(r.Scope.ChapterPtr()), r.Target)
	default:
		c.resetQuiz()
	}
}

func (c *Controller) resetQuiz() {
	if c.state.Quiz.Phase() != quiz.PhaseConfig {
		c.state.Quiz.Reset()
	}
}

// refresh renders the current route again without re-entering it.
func (c *Controller) refresh() models.Screen {
	return c.render(c.currentRoute())
}

func (c *Controller) deck(name string) (models.Deck, error) {
	deck, ok := c.state.Decks[name]
	if !ok {
		return nil, &services.NotFoundError{Message: "Deck not found"}
	}
	return deck, nil
}

// Deck returns a copy of the named deck.
func (c *Controller) Deck(name string) (models.Deck, error) {
	deck, err := c.deck(name)
	if err != nil {
		return nil, err
	}
	return deck.Clone(), nil
}

// ListDecks returns deck summaries sorted by name.
func (c *Controller) ListDecks() []models.DeckSummary {
	summaries := make([]models.DeckSummary, 0, len(c.state.Decks))
	for name, deck := range c.state.Decks {
		summaries = append(summaries, models.DeckSummary{Name: name, Chapters: len(deck), CardCount: deck.CardCount()})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// AddDeck stores deck under name, replacing any deck of that name, and
// persists the session.
func (c *Controller) AddDeck(name string, deck models.Deck) (models.Screen, error) {
	name, err := services.ValidateDeckName(name)
	if err != nil {
		return models.Screen{}, err
	}
	stored := deck.Clone()
	navigation.NormalizeURLs(stored, name)

	if name == c.state.CurrentDeck {
		c.state.Window.Dispose()
		c.state.Quiz.Reset()
	}
	c.state.Decks[name] = stored
	c.store.Save(c.ctx, c.state.ID, c.state.Decks)

	c.logger.Info("deck stored",
		zap.String("session_id", c.state.ID),
		zap.String("deck", name),
		zap.Int("cards", stored.CardCount()),
	)
	return c.HandleRoute(), nil
}

func (c *Controller) DeleteDeck(name string) (models.Screen, error) {
	if _, err := c.deck(name); err != nil {
		return models.Screen{}, err
	}
	delete(c.state.Decks, name)
	if name == c.state.CurrentDeck {
		c.state.CurrentDeck = ""
		c.state.Window.Dispose()
		c.state.Quiz.ReplaceConfig(quiz.DefaultConfig(c.opts.QuizDefaultCount))
	}
	c.store.Save(c.ctx, c.state.ID, c.state.Decks)
	return c.HandleRoute(), nil
}

func (c *Controller) Search(name, query string) ([]models.SearchResult, error) {
	deck, err := c.deck(name)
	if err != nil {
		return nil, err
	}
	results := services.Search(deck, name, query)
	if results == nil {
		results = []models.SearchResult{}
	}
	return results, nil
}

func (c *Controller) SetPrefs(prefs models.DisplayPrefs) models.Screen {
	c.state.Prefs = prefs.Normalize()
	c.store.SavePrefs(c.ctx, c.state.ID, c.state.Prefs)
	return c.refresh()
}

func (c *Controller) History() []string {
	return c.state.History.Entries()
}

// CardsVisible is the observer callback of the card browser. Calls with a
// stale observer id change nothing.
func (c *Controller) CardsVisible(observerID string) models.Screen {
	if c.currentRoute().Screen() != navigation.ScreenCards {
		return c.Screen()
	}
	if !c.state.Window.OnVisible(observerID) {
		return c.Screen()
	}
	return c.refresh()
}

// CardsScroll remembers the browser's scroll offset for when the same
// scope is shown again.
func (c *Controller) CardsScroll(position int) models.Screen {
	if c.currentRoute().Screen() == navigation.ScreenCards {
		c.state.Window.SetScroll(position)
	}
	return c.Screen()
}

func (c *Controller) requireScreen(screen navigation.Screen) error {
	if c.currentRoute().Screen() != screen {
		return &services.ConflictError{Code: "INVALID_STATE", Message: "Not available on the current screen"}
	}
	return nil
}

// ConfigureQuiz updates the quiz defaults from the configuration screen.
// count is clamped to the cards available in the scope.
func (c *Controller) ConfigureQuiz(count *int, order *quiz.Order) (models.Screen, error) {
	if err := c.requireScreen(navigation.ScreenQuizConfig); err != nil {
		return models.Screen{}, err
	}
	if order != nil {
		if err := c.state.Quiz.SetOrder(*order); err != nil {
			return models.Screen{}, err
		}
	}
	if count != nil {
		c.state.Quiz.SetCount(clampCount(*count, c.quizAvailable()))
	}
	return c.refresh(), nil
}

// StartQuiz builds the question list from the configured scope and moves
// to the quiz screen.
func (c *Controller) StartQuiz(count *int) (models.Screen, error) {
	if err := c.requireScreen(navigation.ScreenQuizConfig); err != nil {
		return models.Screen{}, err
	}
	requested := c.state.Quiz.Config().Count
	if count != nil {
		requested = *count
	}
	deck := c.state.Decks[c.state.CurrentDeck]
	refs := deck.Refs(c.state.Quiz.Config().Scope.ChapterPtr())
	if err := c.state.Quiz.Start(refs, requested); err != nil {
		return models.Screen{}, err
	}
	return c.Navigate(navigation.QuizActive{DeckName: c.state.CurrentDeck}.Path()), nil
}

func (c *Controller) RevealAnswer() (models.Screen, error) {
	if err := c.requireScreen(navigation.ScreenQuiz); err != nil {
		return models.Screen{}, err
	}
	if err := c.state.Quiz.Reveal(); err != nil {
		return models.Screen{}, err
	}
	return c.refresh(), nil
}

// Answer records the self-graded answer. After the last question the
// session moves to the results screen.
func (c *Controller) Answer(correct bool) (models.Screen, error) {
	if err := c.requireScreen(navigation.ScreenQuiz); err != nil {
		return models.Screen{}, err
	}
	if err := c.state.Quiz.Submit(correct); err != nil {
		return models.Screen{}, err
	}
	if c.state.Quiz.Phase() == quiz.PhaseResults {
		return c.Navigate(navigation.QuizResults{DeckName: c.state.CurrentDeck}.Path()), nil
	}
	return c.refresh(), nil
}

func (c *Controller) quizAvailable() int {
	deck := c.state.Decks[c.state.CurrentDeck]
	return len(deck.Refs(c.state.Quiz.Config().Scope.ChapterPtr()))
}

func clampCount(count, available int) int {
	if count > available {
		count = available
	}
	if count < 1 {
		count = 1
	}
	return count
}

func (c *Controller) beginImport() error {
	if c.state.ImportPending {
		return &services.ConflictError{Code: "IMPORT_PENDING", Message: "An import is already running"}
	}
	c.state.ImportPending = true
	return nil
}

func (c *Controller) endImport() {
	c.state.ImportPending = false
}
