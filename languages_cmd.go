package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/polyglot/internal/lang"
)

var (
	targetsOnly bool

	languagesCmd = &cobra.Command{
		Use:     "languages [QUERY]",
		Aliases: []string{"langs"},
		Short:   "List the languages you can translate between",
		Example: paragraph("polyglot languages\npolyglot languages port"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			langs := catalog.Sources()
			if targetsOnly {
				langs = catalog.Targets()
			}
			if len(args) == 1 {
				langs = lang.Filter(langs, args[0])
			}
			return listLanguages(cmd.OutOrStdout(), langs)
		},
	}

	voicesCmd = &cobra.Command{
		Use:   "voices",
		Short: "List the prebuilt speech voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listVoices(cmd.OutOrStdout(), voice)
		},
	}
)

func init() {
	languagesCmd.Flags().BoolVar(&targetsOnly, "targets", false, "only list valid target languages")
}

func listLanguages(w io.Writer, langs []lang.Language) error {
	if len(langs) == 0 {
		_, err := fmt.Fprintln(w, subtle("No matching languages."))
		return err
	}

	codeWidth := 0
	for _, l := range langs {
		codeWidth = max(codeWidth, runewidth.StringWidth(l.Code))
	}

	var b strings.Builder
	for _, l := range langs {
		fmt.Fprintf(&b, "%s  %s\n", keyword(runewidth.FillRight(l.Code, codeWidth)), l.Label())
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func listVoices(w io.Writer, current string) error {
	var b strings.Builder
	for _, v := range lang.Voices {
		marker := "  "
		if v == current {
			marker = keyword("* ")
		}
		note := ""
		if v == lang.DefaultVoice {
			note = subtle(" (default)")
		}
		fmt.Fprintf(&b, "%s%s%s\n", marker, v, note)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
