package app

import (
	"fmt"

	"flashdeck/internal/models"
	"flashdeck/internal/navigation"
)

const allCardsTitle = "All cards"

var quickCounts = []int{5, 10, 20}

// render builds the view model for route and records it as the session's
// current screen.
func (c *Controller) render(route navigation.Route) models.Screen {
	s := models.Screen{
		Name:     string(route.Screen()),
		Path:     route.Path(),
		ShowBack: navigation.ShowsBack(route),
		Prefs:    c.state.Prefs,
	}
	if s.ShowBack {
		s.BackPath = navigation.BackTarget(route, c.state.Quiz.Config().Scope).Path()
	}

	deck := c.state.Decks[route.Deck()]
	switch r := route.(type) {
	case navigation.DeckManager:
		s.Title = "Decks"
		s.DeckManager = &models.DeckManagerView{Decks: c.ListDecks()}
	case navigation.Home:
		s.Title = r.DeckName + " — Chapters"
		s.Home = homeView(r.DeckName, deck)
	case navigation.Cards:
		s.Cards = c.cardsView(r, deck)
		s.Title = r.DeckName + " — " + s.Cards.ChapterTitle
	case navigation.QuizConfig:
		s.Title = r.DeckName + " — Configuration"
		s.QuizConfig = c.quizConfigView(r, deck)
	case navigation.QuizActive:
		s.Quiz = c.quizView(r, deck)
		s.Title = fmt.Sprintf("%s — Quiz %d/%d", r.DeckName, s.Quiz.Number, s.Quiz.Total)
	case navigation.QuizResults:
		s.Title = r.DeckName + " — Results"
		s.QuizResults = c.quizResultsView(r)
	}

	c.state.screen = s
	c.state.version++
	return s
}

func homeView(name string, deck models.Deck) *models.HomeView {
	v := &models.HomeView{
		Deck:        name,
		Chapters:    make([]models.ChapterSummary, 0, len(deck)),
		TotalCards:  deck.CardCount(),
		ViewAllPath: navigation.Cards{DeckName: name, Scope: models.ScopeAll}.Path(),
		QuizAllPath: navigation.QuizConfig{DeckName: name, Scope: models.ScopeAll}.Path(),
	}
	for i, ch := range deck {
		scope := models.ChapterScope(i)
		v.Chapters = append(v.Chapters, models.ChapterSummary{
			Index:     i,
			Name:      ch.Name,
			CardCount: len(ch.Cards),
			Path:      navigation.Cards{DeckName: name, Scope: scope}.Path(),
			QuizPath:  navigation.QuizConfig{DeckName: name, Scope: scope}.Path(),
		})
	}
	return v
}

func scopeTitle(deck models.Deck, scope models.Scope) string {
	if i, ok := scope.Chapter(); ok && i < len(deck) {
		return deck[i].Name
	}
	return allCardsTitle
}

func cardItem(deck models.Deck, ref models.CardRef) models.CardItem {
	card, _ := deck.Card(ref)
	return models.CardItem{
		Front:        card.Front,
		Back:         card.Back,
		ChapterIndex: ref.ChapterIndex,
		CardIndex:    ref.CardIndex,
		URL:          card.URL,
	}
}

func (c *Controller) cardsView(r navigation.Cards, deck models.Deck) *models.CardsView {
	w := c.state.Window
	loaded := w.Loaded()
	v := &models.CardsView{
		Scope:          r.Scope,
		ChapterTitle:   scopeTitle(deck, r.Scope),
		ChapterCount:   w.Total(),
		Total:          deck.CardCount(),
		Cards:          make([]models.CardItem, 0, len(loaded)),
		HasMore:        w.HasMore(),
		ObserverID:     w.ObserverID(),
		ScrollPosition: w.ScrollPosition(),
		ScrollTo:       w.ScrollTo(),
		QuizPath:       navigation.QuizConfig{DeckName: r.DeckName, Scope: r.Scope}.Path(),
	}
	for _, ref := range loaded {
		v.Cards = append(v.Cards, cardItem(deck, ref))
	}
	return v
}

func (c *Controller) quizConfigView(r navigation.QuizConfig, deck models.Deck) *models.QuizConfigView {
	cfg := c.state.Quiz.Config()
	available := len(deck.Refs(r.Scope.ChapterPtr()))
	v := &models.QuizConfigView{
		Scope:      r.Scope,
		ScopeTitle: scopeTitle(deck, r.Scope),
		Available:  available,
		Order:      string(cfg.Order),
	}
	if available == 0 {
		v.QuickCounts = []int{}
		return v
	}
	v.Count = clampCount(cfg.Count, available)
	v.QuickCounts = quickCountsFor(available)
	return v
}

// quickCountsFor lists the shortcut counts clamped to limit, without
// repeats, ending with limit itself.
func quickCountsFor(limit int) []int {
	out := make([]int, 0, len(quickCounts)+1)
	seen := make(map[int]bool)
	for _, n := range append(append([]int(nil), quickCounts...), limit) {
		n = clampCount(n, limit)
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func (c *Controller) quizView(r navigation.QuizActive, deck models.Deck) *models.QuizView {
	p := c.state.Quiz.Progress()
	v := &models.QuizView{
		Number:   p.Index + 1,
		Total:    p.Total,
		Progress: p.Percent,
		Correct:  p.Correct,
		Answered: p.Answered,
		Revealed: p.Revealed,
	}
	if ref, ok := c.state.Quiz.Current(); ok {
		v.Card = cardItem(deck, ref)
		if !p.Revealed {
			v.Card.Back = ""
		}
	}
	return v
}

func (c *Controller) quizResultsView(r navigation.QuizResults) *models.QuizResultsView {
	res, _ := c.state.Quiz.Results()
	return &models.QuizResultsView{
		Total:        res.Total,
		Correct:      res.Correct,
		Incorrect:    res.Incorrect,
		ScorePercent: res.ScorePercent,
		RetryPath:    navigation.QuizConfig{DeckName: r.DeckName, Scope: c.state.Quiz.Config().Scope}.Path(),
		HomePath:     navigation.Home{DeckName: r.DeckName}.Path(),
	}
}
