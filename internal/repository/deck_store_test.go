package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"flashdeck/internal/models"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error { return f.err }

func sampleDecks() map[string]models.Deck {
	return map[string]models.Deck{
		"jp": {
			{Name: "Basics", Cards: []models.Card{
				{Front: "水", Back: "water", URL: "#/jp/chapter/0/card/0"},
				{Front: "火", Back: "fire", URL: "#/jp/chapter/0/card/1"},
			}},
			{Name: "Empty", Cards: []models.Card{}},
		},
		"de": {
			{Name: "Verbs", Cards: []models.Card{{Front: "gehen", Back: "to go", URL: "#/de/chapter/0/card/0"}}},
		},
	}
}

func TestDeckStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range map[string]KV{
		"memory": NewMemoryKV(),
		"file":   mustFileKV(t),
	} {
		t.Run(name, func(t *testing.T) {
			store := NewDeckStore(kv, "decks", nil)
			store.Save(ctx, "s1", sampleDecks())

			got := store.Load(ctx, "s1")
			if diff := cmp.Diff(sampleDecks(), got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func mustFileKV(t *testing.T) *FileKV {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	return kv
}

func TestDeckStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewDeckStore(NewMemoryKV(), "decks", nil)
	store.Save(ctx, "s1", sampleDecks())

	assert.Empty(t, store.Load(ctx, "s2"))
}

func TestDeckStore_LoadNormalizesURLs(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "decks:s1", []byte(`{"jp":[{"chapter":"A","cards":[{"front":"a","back":"b","url":"#/wrong"},{"front":"c","back":"d"}]}]}`)))

	decks := NewDeckStore(kv, "decks", nil).Load(ctx, "s1")
	require.Contains(t, decks, "jp")
	assert.Equal(t, "#/jp/chapter/0/card/0", decks["jp"][0].Cards[0].URL)
	assert.Equal(t, "#/jp/chapter/0/card/1", decks["jp"][0].Cards[1].URL)
}

func TestDeckStore_LoadFailsSoft(t *testing.T) {
	ctx := context.Background()

	tests := map[string]string{
		"corrupt": `{not json`,
		"array":   `[1, 2, 3]`,
		"null":    `null`,
		"scalar":  `"decks"`,
	}
	for name, stored := range tests {
		t.Run(name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ctx, "decks:s1", []byte(stored)))
			decks := NewDeckStore(kv, "decks", nil).Load(ctx, "s1")
			assert.NotNil(t, decks)
			assert.Empty(t, decks)
		})
	}
}

func TestDeckStore_LoadDropsBadDecks(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "decks:s1", []byte(`{
		"good": [{"chapter": "A", "cards": [{"front": "a", "back": "b"}]}],
		"nocards": [{"chapter": "B"}],
		"bad": {"chapter": "x"},
		"worse": [{"chapter": 7, "cards": []}],
		"nil": null
	}`)))

	decks := NewDeckStore(kv, "decks", nil).Load(ctx, "s1")
	assert.Len(t, decks, 2)
	assert.Contains(t, decks, "good")
	assert.Equal(t, []models.Card{}, decks["nocards"][0].Cards)
}

func TestDeckStore_StorageErrorsAreLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	store := NewDeckStore(failingKV{err: errors.New("quota exceeded")}, "decks", zap.New(core))

	assert.NotPanics(t, func() { store.Save(ctx, "s1", sampleDecks()) })
	assert.Empty(t, store.Load(ctx, "s1"))
	assert.Equal(t, models.DefaultDisplayPrefs(), store.LoadPrefs(ctx, "s1"))

	assert.Equal(t, 1, logs.FilterMessage("failed to save decks").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to read decks").Len())
}

func TestDeckStore_MissingKeyIsQuiet(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := NewDeckStore(NewMemoryKV(), "decks", zap.New(core))

	assert.Empty(t, store.Load(context.Background(), "fresh"))
	assert.Zero(t, logs.Len())
}

func TestDeckStore_Prefs(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewDeckStore(kv, "decks", nil)

	assert.Equal(t, models.DefaultDisplayPrefs(), store.LoadPrefs(ctx, "s1"))

	store.SavePrefs(ctx, "s1", models.DisplayPrefs{FrontFontSize: 200, BackFontSize: 31})
	assert.Equal(t, models.DisplayPrefs{FrontFontSize: 72, BackFontSize: 30}, store.LoadPrefs(ctx, "s1"))

	_, err := kv.Get(ctx, "decks:s1:prefs")
	assert.NoError(t, err)
	_, err = kv.Get(ctx, "decks:s1")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
