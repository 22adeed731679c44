package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/polyglot/internal/history"
	"github.com/dgnsrekt/polyglot/internal/history/export"
	"github.com/dgnsrekt/polyglot/utils"
)

const idWidth = 8

var (
	exportFormat string
	exportOutput string
	clearYes     bool

	historyCmd = &cobra.Command{
		Use:     "history",
		Short:   "List, show, remove and export saved translations",
		Long:    paragraph(fmt.Sprintf("\nThe %d most recent translations are kept. Ids may be shortened to any unique prefix.", history.MaxEntries)),
		Example: paragraph("polyglot history list\npolyglot history show 3f2a\npolyglot history export --format md -o history.md"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(func(s *history.Store) error {
				return listHistory(cmd.OutOrStdout(), s.Entries(), time.Now(), terminalWidth())
			})
		},
	}

	historyListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved translations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(func(s *history.Store) error {
				return listHistory(cmd.OutOrStdout(), s.Entries(), time.Now(), terminalWidth())
			})
		},
	}

	historyShowCmd = &cobra.Command{
		Use:   "show ID",
		Short: "Show one translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(s *history.Store) error {
				e, err := findEntry(s.Entries(), args[0])
				if err != nil {
					return err
				}
				return showEntry(cmd.OutOrStdout(), e)
			})
		},
	}

	historyRmCmd = &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove one translation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(func(s *history.Store) error {
				e, err := findEntry(s.Entries(), args[0])
				if err != nil {
					return err
				}
				if _, err := s.RemoveByID(e.ID); err != nil {
					return fmt.Errorf("unable to remove entry: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Removed", shortID(e.ID))
				return nil
			})
		},
	}

	historyClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove all saved translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !clearYes {
				return fmt.Errorf("this removes every saved translation; run again with %s", keyword("--yes"))
			}
			return withHistory(func(s *history.Store) error {
				n := s.Len()
				if err := s.Clear(); err != nil {
					return fmt.Errorf("unable to clear history: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", english.Plural(n, "entry", "entries"))
				return nil
			})
		},
	}

	historyExportCmd = &cobra.Command{
		Use:     "export",
		Short:   "Export the history as JSON, YAML or Markdown",
		Example: paragraph("polyglot history export > history.json\npolyglot history export --format yaml -o history.yml"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ex, err := export.NewExporter(exportFormat, catalog.Name)
			if err != nil {
				return err
			}
			return withHistory(func(s *history.Store) error {
				return exportHistory(ex, s.Entries(), exportOutput, cmd.OutOrStdout())
			})
		},
	}
)

func init() {
	historyClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "confirm")
	historyExportCmd.Flags().StringVar(&exportFormat, "format", "json", "json, yaml or md")
	historyExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRmCmd, historyClearCmd, historyExportCmd)
}

func withHistory(fn func(*history.Store) error) error {
	s, _, _, err := openHistory()
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck
	return fn(s)
}

func shortID(id string) string {
	if len(id) <= idWidth {
		return id
	}
	return id[:idWidth]
}

// findEntry resolves a full id or a unique prefix of one.
func findEntry(entries []history.Entry, id string) (history.Entry, error) {
	var found []history.Entry
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
		if strings.HasPrefix(e.ID, id) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return history.Entry{}, fmt.Errorf("%w: %s", history.ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return history.Entry{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", id, len(found))
	}
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return min(w, 120)
}

func listHistory(w io.Writer, entries []history.Entry, now time.Time, width int) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, subtle("No recent translations yet."))
		return err
	}

	const (
		whenWidth  = 14
		langsWidth = 9
		gaps       = 4
	)
	textWidth := max(10, (width-idWidth-whenWidth-langsWidth-gaps*2)/2)

	var b strings.Builder
	for _, e := range entries {
		when := humanize.RelTime(e.Time(), now, "ago", "from now")
		langs := e.SourceLang + "→" + e.TargetLang

		fmt.Fprintf(&b, "%s  %s  %s  %s  %s\n",
			heading(shortID(e.ID)),
			subtle(runewidth.FillRight(runewidth.Truncate(when, whenWidth, "…"), whenWidth)),
			runewidth.FillRight(runewidth.Truncate(langs, langsWidth, "…"), langsWidth),
			runewidth.FillRight(runewidth.Truncate(oneLine(e.SourceText), textWidth, "…"), textWidth),
			keyword(runewidth.Truncate(oneLine(e.TranslatedText), textWidth, "…")),
		)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func showEntry(w io.Writer, e history.Entry) error {
	var md bytes.Buffer
	ex := &export.MarkdownExporter{Names: catalog.Name}
	if err := ex.Export([]history.Entry{e}, &md); err != nil {
		return err
	}

	style := "notty"
	if term.IsTerminal(int(os.Stdout.Fd())) {
		style = "dark"
		if !lipgloss.HasDarkBackground() {
			style = "light"
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(terminalWidth()),
	)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(md.String())
	if err != nil {
		return fmt.Errorf("unable to render markdown: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func exportHistory(ex export.Exporter, entries []history.Entry, path string, stdout io.Writer) error {
	if path == "" {
		return ex.Export(entries, stdout)
	}

	path = utils.ExpandPath(path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create export file: %w", err)
	}
	if err := ex.Export(entries, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %s to %s\n", english.Plural(len(entries), "entry", "entries"), path)
	return nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
