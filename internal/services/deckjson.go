package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"flashdeck/internal/models"
	"flashdeck/internal/navigation"
)

// ErrInvalidDeckFormat is returned for uploads that do not match the deck
// schema. Nothing is stored when it is returned.
var ErrInvalidDeckFormat = errors.New("invalid deck format")

// ValidateDeckName trims name and rejects values that cannot be used as
// the first segment of a path.
func ValidateDeckName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fieldError("name", "Deck name is required")
	}
	if strings.ContainsAny(name, "/#") {
		return "", fieldError("name", "Deck name must not contain '/' or '#'")
	}
	return name, nil
}

// DeckNameFromFilename derives a default deck name from an uploaded file.
func DeckNameFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	lower := strings.ToLower(base)
	for _, ext := range []string{".json", ".apkg"} {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// ParseDeckJSON checks the structure of an uploaded deck: an array of
// {"chapter": string, "cards": [{"front", "back", "url"?}]}.
func ParseDeckJSON(data []byte) (models.Deck, error) {
	var chapters []json.RawMessage
	if err := json.Unmarshal(data, &chapters); err != nil || chapters == nil {
		return nil, fmt.Errorf("%w: expected an array of chapters", ErrInvalidDeckFormat)
	}

	deck := make(models.Deck, 0, len(chapters))
	for i, raw := range chapters {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			return nil, fmt.Errorf("%w: chapter %d is not an object", ErrInvalidDeckFormat, i)
		}

		var name string
		rawName, ok := fields["chapter"]
		if !ok || string(rawName) == "null" || json.Unmarshal(rawName, &name) != nil {
			return nil, fmt.Errorf("%w: chapter %d has no \"chapter\" name", ErrInvalidDeckFormat, i)
		}

		var rawCards []json.RawMessage
		if err := json.Unmarshal(fields["cards"], &rawCards); err != nil || rawCards == nil {
			return nil, fmt.Errorf("%w: chapter %d has no \"cards\" array", ErrInvalidDeckFormat, i)
		}

		ch := models.Chapter{Name: name, Cards: make([]models.Card, 0, len(rawCards))}
		for j, rc := range rawCards {
			var card models.Card
			if err := json.Unmarshal(rc, &card); err != nil || string(rc) == "null" {
				return nil, fmt.Errorf("%w: chapter %d card %d is not a valid card", ErrInvalidDeckFormat, i, j)
			}
			ch.Cards = append(ch.Cards, card)
		}
		deck = append(deck, ch)
	}
	return deck, nil
}

// Search does a case-insensitive substring match on both sides of every
// card, in deck order.
func Search(deck models.Deck, deckName, query string) []models.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []models.SearchResult
	for i, ch := range deck {
		for j, card := range ch.Cards {
			if !strings.Contains(strings.ToLower(card.Front), q) && !strings.Contains(strings.ToLower(card.Back), q) {
				continue
			}
			results = append(results, models.SearchResult{
				ChapterIndex: i,
				CardIndex:    j,
				Chapter:      ch.Name,
				Front:        card.Front,
				Back:         card.Back,
				Path:         navigation.CardPath(deckName, i, j),
			})
		}
	}
	return results
}
