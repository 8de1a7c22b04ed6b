package services

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"

	"flashdeck/internal/models"
)

var (
	ErrInvalidArchive       = errors.New("file is not a valid .apkg archive")
	ErrMissingCollection    = errors.New("archive has no collection.anki2")
	ErrDecoderUnavailable   = errors.New("sqlite decoder unavailable")
	ErrUnreadableCollection = errors.New("collection database cannot be read")
	ErrNoCards              = errors.New("no importable cards found")
)

const (
	sqliteDriver   = "sqlite"
	fieldSeparator = "\x1f"

	DefaultImportChapter = "APKG import"
	NoChapterName        = "No chapter"
)

// Newer exports ship collection.anki21 next to a stub collection.anki2.
var collectionNames = []string{"collection.anki21", "collection.anki2"}

// ImportOptions selects which note fields become the card sides. Chapter
// groups cards by the value of that field when set.
type ImportOptions struct {
	Front   int
	Back    int
	Chapter *int
}

type ImportReport struct {
	Cards    int `json:"cards"`
	Chapters int `json:"chapters"`
	Skipped  int `json:"skipped"`
}

type Importer struct {
	logger  *zap.Logger
	tempDir string
}

func NewImporter(logger *zap.Logger, tempDir string) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{logger: logger, tempDir: tempDir}
}

// DefaultFieldNames is used when an archive exposes no readable note type.
func DefaultFieldNames() []string {
	return []string{"Field 1", "Field 2"}
}

// ExtractFieldNames returns the field names of the first note type in the
// archive. An empty slice means none could be decoded.
func (s *Importer) ExtractFieldNames(ctx context.Context, archive []byte) ([]string, error) {
	db, cleanup, err := s.openCollection(ctx, archive)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	names, err := modelFieldNames(ctx, db)
	if err != nil {
		s.logger.Debug("col.models not decodable, trying fields table", zap.Error(err))
	}
	if len(names) == 0 {
		names = notetypeFieldNames(ctx, db)
	}
	return names, nil
}

// BuildDeck turns every card of the archive into a deck card, in card id
// order. Notes that cannot be read are skipped and counted.
func (s *Importer) BuildDeck(ctx context.Context, archive []byte, opts ImportOptions) (models.Deck, ImportReport, error) {
	var report ImportReport
	if opts.Front < 0 || opts.Back < 0 || (opts.Chapter != nil && *opts.Chapter < 0) {
		return nil, report, fieldError("fields", "Field indexes must not be negative")
	}

	db, cleanup, err := s.openCollection(ctx, archive)
	if err != nil {
		return nil, report, err
	}
	defer cleanup()

	rows, err := db.QueryContext(ctx, `SELECT n.flds FROM cards c JOIN notes n ON n.id = c.nid ORDER BY c.id ASC`)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrUnreadableCollection, err)
	}
	defer rows.Close()

	grouper := newChapterGrouper()
	for rows.Next() {
		var flds sql.NullString
		if err := rows.Scan(&flds); err != nil || !flds.Valid {
			report.Skipped++
			continue
		}

		parts := strings.Split(flds.String, fieldSeparator)
		for i := range parts {
			parts[i] = CleanFieldText(parts[i])
		}

		front, back := pickSides(parts, opts.Front, opts.Back)
		if front == "" && back == "" {
			report.Skipped++
			continue
		}

		chapter := DefaultImportChapter
		if opts.Chapter != nil {
			chapter = NoChapterName
			if *opts.Chapter < len(parts) && parts[*opts.Chapter] != "" {
				chapter = parts[*opts.Chapter]
			}
		}
		grouper.add(chapter, models.Card{Front: front, Back: back})
	}
	if err := rows.Err(); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrUnreadableCollection, err)
	}

	deck := grouper.deck()
	report.Cards = deck.CardCount()
	report.Chapters = len(deck)
	if report.Cards == 0 {
		return nil, report, ErrNoCards
	}

	s.logger.Info("apkg decoded",
		zap.Int("cards", report.Cards),
		zap.Int("chapters", report.Chapters),
		zap.Int("skipped", report.Skipped),
	)
	return deck, report, nil
}

// pickSides falls back to the front field, then the first field, when an
// index is past the end of the note.
func pickSides(parts []string, frontIdx, backIdx int) (string, string) {
	at := func(i int) (string, bool) {
		if i < len(parts) {
			return parts[i], true
		}
		return "", false
	}

	front, ok := at(frontIdx)
	if !ok {
		front, _ = at(0)
	}
	back, ok := at(backIdx)
	if !ok {
		if back, ok = at(frontIdx); !ok {
			back, _ = at(0)
		}
	}
	return front, back
}

// chapterGrouper keeps chapters in first-seen order.
type chapterGrouper struct {
	order []string
	cards map[string][]models.Card
}

func newChapterGrouper() *chapterGrouper {
	return &chapterGrouper{cards: make(map[string][]models.Card)}
}

func (g *chapterGrouper) add(chapter string, card models.Card) {
	if _, ok := g.cards[chapter]; !ok {
		g.order = append(g.order, chapter)
	}
	g.cards[chapter] = append(g.cards[chapter], card)
}

func (g *chapterGrouper) deck() models.Deck {
	deck := make(models.Deck, 0, len(g.order))
	for _, name := range g.order {
		deck = append(deck, models.Chapter{Name: name, Cards: g.cards[name]})
	}
	return deck
}

// openCollection extracts the embedded database to a temp file, since the
// driver only opens files. cleanup closes the handle and removes the file.
func (s *Importer) openCollection(ctx context.Context, archive []byte) (*sql.DB, func(), error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	var entry *zip.File
	for _, name := range collectionNames {
		for _, f := range zr.File {
			if f.Name == name {
				entry = f
				break
			}
		}
		if entry != nil {
			break
		}
	}
	if entry == nil {
		return nil, nil, ErrMissingCollection
	}

	if !driverRegistered(sqliteDriver) {
		return nil, nil, ErrDecoderUnavailable
	}

	tmp, err := os.CreateTemp(s.tempDir, "collection-*.sqlite")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	removeTmp := func() { os.Remove(tmp.Name()) }

	if err := copyZipEntry(tmp, entry); err != nil {
		tmp.Close()
		removeTmp()
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	if err := tmp.Close(); err != nil {
		removeTmp()
		return nil, nil, fmt.Errorf("failed to write collection: %w", err)
	}

	db, err := sql.Open(sqliteDriver, tmp.Name())
	if err != nil {
		removeTmp()
		return nil, nil, fmt.Errorf("%w: %v", ErrDecoderUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		removeTmp()
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableCollection, err)
	}

	cleanup := func() {
		db.Close()
		removeTmp()
	}
	return db, cleanup, nil
}

func copyZipEntry(dst io.Writer, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(dst, rc)
	return err
}

func driverRegistered(name string) bool {
	for _, d := range sql.Drivers() {
		if d == name {
			return true
		}
	}
	return false
}

type ankiModel struct {
	Fields []struct {
		Name string `json:"name"`
		Ord  *int   `json:"ord"`
	} `json:"flds"`
}

// modelFieldNames reads the legacy col.models JSON. Model ids are numeric
// strings; the smallest id counts as the first model.
func modelFieldNames(ctx context.Context, db *sql.DB) ([]string, error) {
	var raw sql.NullString
	if err := db.QueryRowContext(ctx, `SELECT models FROM col LIMIT 1`).Scan(&raw); err != nil {
		return nil, err
	}
	if !raw.Valid || strings.TrimSpace(raw.String) == "" {
		return nil, nil
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw.String), &byID); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		var m ankiModel
		if err := json.Unmarshal(byID[id], &m); err != nil || len(m.Fields) == 0 {
			continue
		}
		sort.SliceStable(m.Fields, func(i, j int) bool {
			if m.Fields[i].Ord == nil || m.Fields[j].Ord == nil {
				return false
			}
			return *m.Fields[i].Ord < *m.Fields[j].Ord
		})
		names := make([]string, len(m.Fields))
		for i, f := range m.Fields {
			names[i] = f.Name
			if strings.TrimSpace(f.Name) == "" {
				names[i] = fmt.Sprintf("Field %d", i+1)
			}
		}
		return names, nil
	}
	return nil, nil
}

// notetypeFieldNames reads the split schema used by newer collections,
// where fields live in their own table.
func notetypeFieldNames(ctx context.Context, db *sql.DB) []string {
	rows, err := db.QueryContext(ctx, `SELECT name FROM fields WHERE ntid = (SELECT MIN(ntid) FROM fields) ORDER BY ord`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			continue
		}
		if !name.Valid || strings.TrimSpace(name.String) == "" {
			names = append(names, fmt.Sprintf("Field %d", len(names)+1))
			continue
		}
		names = append(names, name.String)
	}
	return names
}

var (
	imgTagRe   = regexp.MustCompile(`(?i)<img[^>]*>`)
	audioTagRe = regexp.MustCompile(`(?is)<audio[^>]*>.*?</audio>`)
	videoTagRe = regexp.MustCompile(`(?is)<video[^>]*>.*?</video>`)
	soundRe    = regexp.MustCompile(`(?i)\[sound:[^\]]*\]`)
	anyTagRe   = regexp.MustCompile(`<[^>]*>`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
)

// CleanFieldText strips media references and markup from a note field.
func CleanFieldText(s string) string {
	if s == "" {
		return ""
	}
	s = imgTagRe.ReplaceAllString(s, "")
	s = audioTagRe.ReplaceAllString(s, "")
	s = videoTagRe.ReplaceAllString(s, "")
	s = soundRe.ReplaceAllString(s, "")
	s = anyTagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(s)
}
