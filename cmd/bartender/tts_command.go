package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bartender/internal/fileutil"
	"bartender/internal/tts"
)

func newTTSCommand(ctx *commandContext) *cobra.Command {
	var voice string
	var lang string
	var textFile string
	var outPath string

	cmd := &cobra.Command{
		Use:   "tts [text...]",
		Short: "Synthesize narration audio",
		Long: "Synthesize narration audio.\n\n" +
			"Voices prefixed with \"elevenlabs:\" are sent to ElevenLabs; any other\n" +
			"voice runs tts.command_template. Use --file - to read text from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := narrationText(cmd.InOrStdin(), args, textFile)
			if err != nil {
				return err
			}
			cfg, logger, err := ctx.configAndLogger()
			if err != nil {
				return err
			}
			synth, err := tts.NewSynthesizer(cfg.TTS, logger)
			if err != nil {
				return err
			}
			audio, err := synth.Synthesize(cmd.Context(), text, tts.VoiceFor(voice, lang))
			if err != nil {
				return err
			}
			if err := fileutil.WriteFileAtomic(outPath, audio, 0o644); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(audio), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&voice, "voice", "", "Voice name or elevenlabs:<voice-id> (default tts.default_voice)")
	cmd.Flags().StringVar(&lang, "language", "", "Pick the default voice for this language when --voice is empty")
	cmd.Flags().StringVarP(&textFile, "file", "f", "", "Read narration from this file (- for stdin)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "narration.wav", "Destination audio file")
	return cmd
}

func narrationText(stdin io.Reader, args []string, textFile string) (string, error) {
	var text string
	switch path := strings.TrimSpace(textFile); {
	case path == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read narration: %w", err)
		}
		text = string(data)
	default:
		text = strings.Join(args, " ")
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("narration text is required (pass it as arguments or with --file)")
	}
	return text, nil
}
