package navigation

import "flashdeck/internal/models"

// CardURL is the deep link stored on each card.
func CardURL(deckName string, chapter, card int) string {
	return "#" + CardPath(deckName, chapter, card)
}

// NormalizeURLs rewrites every card url to match its position, whatever
// was there before.
func NormalizeURLs(deck models.Deck, deckName string) {
	for i := range deck {
		for j := range deck[i].Cards {
			deck[i].Cards[j].URL = CardURL(deckName, i, j)
		}
	}
}
