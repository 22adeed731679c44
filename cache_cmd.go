package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/polyglot/internal/cache"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the synthesized speech cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSpeechCache(func(m *cache.Manager) error {
				return printCacheStats(cmd.OutOrStdout(), m.Stats())
			})
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached speech",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSpeechCache(func(m *cache.Manager) error {
				if err := m.Clear(); err != nil {
					return fmt.Errorf("unable to clear speech cache: %w", err)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Speech cache cleared.")
				return err
			})
		},
	}
)

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

func withSpeechCache(fn func(*cache.Manager) error) error {
	m, err := loadSpeechCache()
	if err != nil {
		return fmt.Errorf("unable to open speech cache: %w", err)
	}
	defer m.Close() //nolint:errcheck
	return fn(m)
}

func printCacheStats(w io.Writer, stats map[cache.Level]cache.Stats) error {
	for _, level := range []cache.Level{cache.LevelMemory, cache.LevelDisk} {
		s := stats[level]
		_, err := fmt.Fprintf(w, "%-7s %s  %s of %s",
			level, keyword(fmt.Sprintf("%4d", s.ItemCount)),
			humanize.IBytes(uint64(s.Size)), humanize.IBytes(uint64(s.Capacity)))
		if err != nil {
			return err
		}
		if s.Hits+s.Misses > 0 {
			fmt.Fprint(w, subtle(fmt.Sprintf("  %.0f%% hits", s.HitRate()*100)))
		}
		fmt.Fprintln(w)
	}
	return nil
}
