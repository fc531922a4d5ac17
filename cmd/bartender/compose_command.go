package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bartender/internal/compose"
	"bartender/internal/fileutil"
)

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var images []string
	var audioPath string
	var srtPath string
	var title string
	var spec string
	var outPath string
	var keepWorkspace bool

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a vertical lesson video with ffmpeg",
		Long: "Compose a vertical lesson video with ffmpeg.\n\n" +
			"Images are shown in the order given after a generated recipe card.\n" +
			"Without images, numbered placeholder frames are rendered, one per\n" +
			"subtitle cue.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.configAndLogger()
			if err != nil {
				return err
			}
			orchestrator := compose.NewOrchestrator(compose.SettingsFromConfig(cfg), logger)
			ws, err := orchestrator.NewWorkspace()
			if err != nil {
				return err
			}
			if !keepWorkspace {
				defer ws.Cleanup()
			}

			req := compose.Request{Workspace: ws, Title: title, Spec: spec}
			for _, image := range images {
				saved, err := copyInto(image, ws.SaveAsset)
				if err != nil {
					return err
				}
				req.Images = append(req.Images, saved)
			}
			if strings.TrimSpace(audioPath) != "" {
				if req.Audio, err = copyInto(audioPath, ws.SaveAudio); err != nil {
					return err
				}
			}
			if strings.TrimSpace(srtPath) != "" {
				data, err := os.ReadFile(srtPath)
				if err != nil {
					return fmt.Errorf("read subtitles: %w", err)
				}
				req.Subtitles = string(data)
			}

			result, err := orchestrator.Compose(cmd.Context(), req)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := fileutil.MoveFile(result.Output, outPath); err != nil {
				return fmt.Errorf("move output: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%d frames, %.2fs each)\n", outPath, len(result.Assets), result.PerAsset)
			if keepWorkspace {
				fmt.Fprintf(out, "Workspace kept at %s\n", ws.Root)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&images, "image", "i", nil, "Frame image, repeat in display order")
	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Narration audio file")
	cmd.Flags().StringVarP(&srtPath, "srt", "s", "", "Lesson subtitles (SRT); without --image, one placeholder frame is drawn per cue")
	cmd.Flags().StringVar(&title, "title", "", "Recipe card title (default lesson.name)")
	cmd.Flags().StringVar(&spec, "spec", "", "Recipe spec for the card")
	cmd.Flags().StringVarP(&outPath, "out", "o", compose.OutputFileName, "Destination video file")
	cmd.Flags().BoolVar(&keepWorkspace, "keep-workspace", false, "Keep the intermediate workspace for inspection")
	return cmd
}

func copyInto(path string, save func(string, io.Reader) (string, error)) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	saved, err := save(filepath.Base(path), file)
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", path, err)
	}
	return saved, nil
}
