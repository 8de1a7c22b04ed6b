package services

import (
	"archive/zip"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"flashdeck/internal/models"
	"flashdeck/internal/navigation"
)

//go:embed widgets/*.js
var widgetFS embed.FS

const (
	jsonFilenamePlaceholder = "__JSON_FILENAME__"
	appURLPlaceholder       = "__APP_URL__"
)

type PackageFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// Packager renders the downloadable bundle for a deck: the normalized
// JSON plus two widget scripts that read it.
type Packager struct {
	appURL string
}

// NewPackager takes the public app URL the widgets should open; card
// deep links (which start with '#') are appended to it.
func NewPackager(appURL string) *Packager {
	return &Packager{appURL: strings.TrimRight(appURL, "/") + "/"}
}

func (p *Packager) Files(deckName string, deck models.Deck) ([]PackageFile, error) {
	normalized := deck.Clone()
	navigation.NormalizeURLs(normalized, deckName)

	body, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}

	jsonName := deckName + ".json"
	files := []PackageFile{{Name: jsonName, ContentType: "application/json", Content: body}}

	widgets := []struct{ template, suffix string }{
		{"widgets/home.js", "_home.js"},
		{"widgets/lockscreen.js", "_lockscreen.js"},
	}
	for _, wdg := range widgets {
		text, err := p.renderWidget(wdg.template, jsonName)
		if err != nil {
			return nil, err
		}
		files = append(files, PackageFile{
			Name:        deckName + wdg.suffix,
			ContentType: "application/javascript",
			Content:     []byte(text),
		})
	}
	return files, nil
}

func (p *Packager) renderWidget(name, jsonName string) (string, error) {
	tmpl, err := widgetFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read widget template %s: %w", name, err)
	}
	return strings.NewReplacer(
		jsonFilenamePlaceholder, jsonName,
		appURLPlaceholder, p.appURL,
	).Replace(string(tmpl)), nil
}

// WriteZip streams the package as a single zip archive.
func (p *Packager) WriteZip(w io.Writer, deckName string, deck models.Deck) error {
	files, err := p.Files(deckName, deck)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}
