package repository

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"flashdeck/internal/models"
	"flashdeck/internal/navigation"
)

// DeckStore persists a session's decks as a single JSON object keyed by
// deck name. Storage problems are logged and never returned: a session
// that cannot load starts empty, a save that fails is dropped.
type DeckStore struct {
	kv     KV
	prefix string
	logger *zap.Logger
}

func NewDeckStore(kv KV, prefix string, logger *zap.Logger) *DeckStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeckStore{kv: kv, prefix: prefix, logger: logger}
}

func (s *DeckStore) decksKey(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *DeckStore) prefsKey(sessionID string) string {
	return s.decksKey(sessionID) + ":prefs"
}

// Load returns every readable deck of the session with card urls
// re-derived from their position. Decks that fail to decode are skipped.
func (s *DeckStore) Load(ctx context.Context, sessionID string) map[string]models.Deck {
	decks := make(map[string]models.Deck)
	log := s.logger.With(zap.String("session_id", sessionID))

	data, err := s.kv.Get(ctx, s.decksKey(sessionID))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			log.Warn("failed to read decks", zap.Error(err))
		}
		return decks
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		log.Warn("stored decks are not an object, starting empty", zap.Error(err))
		return decks
	}

	for name, body := range raw {
		deck, ok := decodeDeck(body)
		if !ok {
			log.Warn("dropping undecodable deck", zap.String("deck", name))
			continue
		}
		navigation.NormalizeURLs(deck, name)
		decks[name] = deck
	}
	return decks
}

func decodeDeck(body json.RawMessage) (models.Deck, bool) {
	var deck models.Deck
	if err := json.Unmarshal(body, &deck); err != nil || deck == nil {
		return nil, false
	}
	for i := range deck {
		if deck[i].Cards == nil {
			deck[i].Cards = []models.Card{}
		}
	}
	return deck, true
}

// Save writes the whole mapping. Failures are logged at warn level.
func (s *DeckStore) Save(ctx context.Context, sessionID string, decks map[string]models.Deck) {
	if decks == nil {
		decks = map[string]models.Deck{}
	}
	data, err := json.Marshal(decks)
	if err != nil {
		s.logger.Warn("failed to encode decks", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.decksKey(sessionID), data); err != nil {
		s.logger.Warn("failed to save decks", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// LoadPrefs falls back to the defaults on any failure.
func (s *DeckStore) LoadPrefs(ctx context.Context, sessionID string) models.DisplayPrefs {
	data, err := s.kv.Get(ctx, s.prefsKey(sessionID))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("failed to read display prefs", zap.String("session_id", sessionID), zap.Error(err))
		}
		return models.DefaultDisplayPrefs()
	}
	var prefs models.DisplayPrefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		return models.DefaultDisplayPrefs()
	}
	return prefs.Normalize()
}

func (s *DeckStore) SavePrefs(ctx context.Context, sessionID string, prefs models.DisplayPrefs) {
	data, _ := json.Marshal(prefs.Normalize())
	if err := s.kv.Set(ctx, s.prefsKey(sessionID), data); err != nil {
		s.logger.Warn("failed to save display prefs", zap.String("session_id", sessionID), zap.Error(err))
	}
}
