package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"flashdeck/internal/models"
)

func TestNormalizeURLs(t *testing.T) {
	deck := models.Deck{
		{Name: "A", Cards: []models.Card{{Front: "1", URL: "#/elsewhere"}, {Front: "2"}}},
		{Name: "B", Cards: []models.Card{{Front: "3"}}},
	}
	NormalizeURLs(deck, "jp")

	assert.Equal(t, "#/jp/chapter/0/card/0", deck[0].Cards[0].URL)
	assert.Equal(t, "#/jp/chapter/0/card/1", deck[0].Cards[1].URL)
	assert.Equal(t, "#/jp/chapter/1/card/0", deck[1].Cards[0].URL)
}

func TestCardURL_ParsesBack(t *testing.T) {
	r, err := Parse(CardURL("jp", 2, 5))
	assert.NoError(t, err)
	target := 5
	assert.Equal(t, Cards{DeckName: "jp", Scope: models.ChapterScope(2), Target: &target}, r)
}
