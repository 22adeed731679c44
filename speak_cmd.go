package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/polyglot/internal/audio"
	"github.com/dgnsrekt/polyglot/utils"
)

var (
	savePath string
	noPlay   bool

	speakCmd = &cobra.Command{
		Use:     "speak [TEXT|-]",
		Short:   "Read text aloud",
		Long:    paragraph(fmt.Sprintf("\n%s text with one of the prebuilt voices. Use --save to keep the audio as a WAV file.", keyword("Speak"))),
		Example: paragraph("polyglot speak \"Buenos días\"\npolyglot speak --voice Puck --save hello.wav --no-play \"Hello\""),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := openApp(ctx, appOptions{provider: true, player: !noPlay})
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			buf, err := a.speech.Buffer(ctx, text, voice)
			if err != nil {
				return fmt.Errorf("speech failed: %w", err)
			}

			if savePath != "" {
				if err := saveWAV(utils.ExpandPath(savePath), buf); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Wrote audio to:", savePath)
			}
			if noPlay {
				return nil
			}
			return playAndWait(ctx, a.output, buf)
		},
	}

	playCmd = &cobra.Command{
		Use:     "play FILE",
		Short:   "Play a saved WAV file or base64 speech payload",
		Example: paragraph("polyglot play hello.wav\npolyglot play payload.b64"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := loadAudio(args[0])
			if err != nil {
				return err
			}

			p := openPlayer()
			if p == nil {
				return errors.New("no audio output available")
			}
			defer p.Close() //nolint:errcheck

			return playAndWait(cmd.Context(), p, buf)
		},
	}
)

func init() {
	speakCmd.Flags().StringVarP(&savePath, "save", "o", "", "write the audio to a WAV file")
	speakCmd.Flags().BoolVar(&noPlay, "no-play", false, "do not play the audio")
}

func saveWAV(path string, buf *audio.Buffer) error {
	data, err := audio.EncodeWAV(buf)
	if err != nil {
		return fmt.Errorf("unable to encode audio: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write audio file: %w", err)
	}
	return nil
}

// loadAudio reads a WAV file, or a file holding a base64 payload of raw
// 24 kHz mono PCM.
func loadAudio(path string) (*audio.Buffer, error) {
	data, err := os.ReadFile(utils.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return audio.DecodeWAV(data)
	}
	return audio.DecodeSpeech(strings.TrimSpace(string(data)))
}

func playAndWait(ctx context.Context, out audio.Output, buf *audio.Buffer) error {
	if out == nil {
		return errors.New("no audio output available")
	}
	h, err := out.Play(buf)
	if err != nil {
		return fmt.Errorf("unable to play audio: %w", err)
	}
	log.Debug("playing", "duration", h.Duration())

	select {
	case <-h.Done():
		return nil
	case <-ctx.Done():
		_ = h.Stop()
		return ctx.Err()
	}
}
