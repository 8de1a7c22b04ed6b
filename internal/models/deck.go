package models

// Deck is the persisted JSON shape: an ordered list of chapters.
type Deck []Chapter

type Chapter struct {
	Name  string `json:"chapter"`
	Cards []Card `json:"cards"`
}

type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	URL   string `json:"url,omitempty"`
}

// CardRef points at a card by position inside the current deck.
type CardRef struct {
	ChapterIndex int `json:"chapter_index"`
	CardIndex    int `json:"card_index"`
}

// CardCount returns the number of cards across all chapters.
func (d Deck) CardCount() int {
	total := 0
	for _, ch := range d {
		total += len(ch.Cards)
	}
	return total
}

// Card resolves a reference, reporting false when it is out of range.
func (d Deck) Card(ref CardRef) (Card, bool) {
	if ref.ChapterIndex < 0 || ref.ChapterIndex >= len(d) {
		return Card{}, false
	}
	cards := d[ref.ChapterIndex].Cards
	if ref.CardIndex < 0 || ref.CardIndex >= len(cards) {
		return Card{}, false
	}
	return cards[ref.CardIndex], true
}

// Refs lists references for one chapter, or for the whole deck when
// chapter is nil.
func (d Deck) Refs(chapter *int) []CardRef {
	var refs []CardRef
	for i, ch := range d {
		if chapter != nil && *chapter != i {
			continue
		}
		for j := range ch.Cards {
			refs = append(refs, CardRef{ChapterIndex: i, CardIndex: j})
		}
	}
	return refs
}

// Clone returns a deep copy so callers can mutate without touching the
// stored deck.
func (d Deck) Clone() Deck {
	out := make(Deck, len(d))
	for i, ch := range d {
		cards := make([]Card, len(ch.Cards))
		copy(cards, ch.Cards)
		out[i] = Chapter{Name: ch.Name, Cards: cards}
	}
	return out
}

type DeckSummary struct {
	Name      string `json:"name"`
	Chapters  int    `json:"chapters"`
	CardCount int    `json:"card_count"`
}

type SearchResult struct {
	ChapterIndex int    `json:"chapter_index"`
	CardIndex    int    `json:"card_index"`
	Chapter      string `json:"chapter"`
	Front        string `json:"front"`
	Back         string `json:"back"`
	Path         string `json:"path"`
}
