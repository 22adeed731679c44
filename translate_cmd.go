package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/polyglot/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [TEXT|-]",
	Short: "Translate text once and stream the result to stdout",
	Long: paragraph(fmt.Sprintf("\n%s text without the interactive UI. The translation is printed as it arrives and saved to history like any other.",
		keyword("Translate"))),
	Example: paragraph("polyglot translate -t fr \"Good morning\"\necho \"Hello\" | polyglot translate -f en -t ja"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := openApp(ctx, appOptions{provider: true})
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		return runTranslate(ctx, a.translator, a.history, text, sourceLang, targetLang, cmd.OutOrStdout())
	},
}

// runTranslate streams a single translation to w. It drives the same
// controller as the UI, so history is recorded by the same rules.
func runTranslate(ctx context.Context, s translate.Streamer, rec translate.Recorder, text, source, target string, w io.Writer) error {
	ctrl := translate.NewController(rec, source, target)

	ticket, ok := ctrl.SetText(text)
	if !ok {
		return errors.New("nothing to translate")
	}
	attempt, _ := ctrl.Fire(ticket.Gen)

	for ev := range translate.Stream(ctx, s, attempt) {
		if !ev.Done {
			ctrl.Fragment(ev.Gen, ev.Fragment)
			if _, err := io.WriteString(w, ev.Fragment); err != nil {
				return fmt.Errorf("unable to write to writer: %w", err)
			}
			continue
		}

		ctrl.Finish(ev.Gen, ev.Err)
		if ev.Err != nil {
			return fmt.Errorf("translation failed: %w", ev.Err)
		}
	}

	if !strings.HasSuffix(ctrl.Translation(), "\n") {
		_, _ = io.WriteString(w, "\n")
	}
	return nil
}
