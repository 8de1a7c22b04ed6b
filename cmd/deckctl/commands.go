package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flashdeck/internal/logging"
	"flashdeck/internal/models"
	"flashdeck/internal/navigation"
	"flashdeck/internal/services"
)

type rootOptions struct {
	verbose bool
	timeout time.Duration
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "deckctl",
		Short:         "Convert and package flashcard decks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger, err := logging.New("development", level)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Operation timeout")

	root.AddCommand(newFieldsCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newNormalizeCmd(opts))
	root.AddCommand(newPackageCmd(opts))
	return root
}

func (o *rootOptions) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.timeout)
}

func newFieldsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <deck.apkg>",
		Short: "List the note fields of an .apkg archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.context()
			defer cancel()

			names, err := services.NewImporter(opts.logger, "").ExtractFieldNames(ctx, archive)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				names = services.DefaultFieldNames()
				fmt.Fprintln(cmd.ErrOrStderr(), "no note type found, using generic field names")
			}
			for i, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, name)
			}
			return nil
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		front, back, chapter int
		name, output         string
	)

	cmd := &cobra.Command{
		Use:   "import <deck.apkg>",
		Short: "Convert an .apkg archive into deck JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = services.DeckNameFromFilename(args[0])
			}
			if name, err = services.ValidateDeckName(name); err != nil {
				return err
			}

			importOpts := services.ImportOptions{Front: front, Back: back}
			if cmd.Flags().Changed("chapter") {
				importOpts.Chapter = &chapter
			}

			ctx, cancel := opts.context()
			defer cancel()

			deck, report, err := services.NewImporter(opts.logger, "").BuildDeck(ctx, archive, importOpts)
			if err != nil {
				return err
			}
			navigation.NormalizeURLs(deck, name)

			if err := writeDeck(cmd.OutOrStdout(), output, deck); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "imported %d cards in %d chapters (%d skipped)\n",
				report.Cards, report.Chapters, report.Skipped)
			return nil
		},
	}
	cmd.Flags().IntVar(&front, "front", 0, "Field index for the card front")
	cmd.Flags().IntVar(&back, "back", 1, "Field index for the card back")
	cmd.Flags().IntVar(&chapter, "chapter", 0, "Field index to group chapters by")
	cmd.Flags().StringVar(&name, "name", "", "Deck name (default: file name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write JSON here instead of stdout")
	return cmd
}

func newNormalizeCmd(opts *rootOptions) *cobra.Command {
	var name, output string

	cmd := &cobra.Command{
		Use:   "normalize <deck.json>",
		Short: "Validate deck JSON and rewrite card links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, name, err := readDeck(args[0], name)
			if err != nil {
				return err
			}
			opts.logger.Debug("deck loaded", zap.String("deck", name), zap.Int("cards", deck.CardCount()))
			navigation.NormalizeURLs(deck, name)
			return writeDeck(cmd.OutOrStdout(), output, deck)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Deck name (default: file name)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write JSON here instead of stdout")
	return cmd
}

func newPackageCmd(opts *rootOptions) *cobra.Command {
	var name, appURL, output string

	cmd := &cobra.Command{
		Use:   "package <deck.json>",
		Short: "Bundle a deck with its home screen widgets as a zip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, name, err := readDeck(args[0], name)
			if err != nil {
				return err
			}
			if output == "" {
				output = name + ".zip"
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := services.NewPackager(appURL).WriteZip(f, name, deck); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			opts.logger.Debug("package written", zap.String("path", output))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Deck name (default: file name)")
	cmd.Flags().StringVar(&appURL, "app-url", "", "Base URL the widgets open cards in")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Zip path (default: <name>.zip)")
	return cmd
}

func readDeck(path, name string) (models.Deck, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	deck, err := services.ParseDeckJSON(data)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(name) == "" {
		name = services.DeckNameFromFilename(path)
	}
	name, err = services.ValidateDeckName(name)
	if err != nil {
		return nil, "", err
	}
	return deck, name, nil
}

func writeDeck(stdout io.Writer, output string, deck models.Deck) error {
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	data = append(data, '\n')
	if output == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
