package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bartender/internal/fileutil"
	"bartender/internal/storyboard"
	"bartender/internal/subtitles"
)

func newSRTCommand(ctx *commandContext) *cobra.Command {
	srtCmd := &cobra.Command{
		Use:   "srt",
		Short: "Build and inspect subtitle files",
	}
	srtCmd.AddCommand(newSRTBuildCommand(ctx))
	srtCmd.AddCommand(newSRTCountCommand())
	srtCmd.AddCommand(newSRTValidateCommand(ctx))
	return srtCmd
}

func newSRTBuildCommand(ctx *commandContext) *cobra.Command {
	var total float64
	var outPath string

	cmd := &cobra.Command{
		Use:   "build <storyboard-file>",
		Short: "Build subtitles from a saved storyboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sb, err := storyboard.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read storyboard: %w", err)
			}
			if total <= 0 {
				total = cfg.Render.TotalSeconds
			}
			doc := subtitles.BuildStoryboard(sb, total)
			if path := strings.TrimSpace(outPath); path != "" {
				if err := fileutil.WriteFileAtomic(path, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("write subtitles: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s\n", subtitles.CountCues(doc), path)
				return nil
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), doc)
			return err
		},
	}
	cmd.Flags().Float64Var(&total, "total", 0, "Lesson length in seconds (default render.total_seconds)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newSRTCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "count <file.srt>",
		Short:       "Count the cues in a subtitle file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read subtitles: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), subtitles.CountCues(string(data)))
			return nil
		},
	}
}

func newSRTValidateCommand(ctx *commandContext) *cobra.Command {
	var total float64

	cmd := &cobra.Command{
		Use:   "validate <file.srt>",
		Short: "Check cue numbering, timestamps, and coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read subtitles: %w", err)
			}
			if !cmd.Flags().Changed("total") {
				total = cfg.Render.TotalSeconds
			}
			issues := subtitles.Validate(string(data), total)
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if len(issues) == 0 {
				fmt.Fprintln(out, renderStatusLine(args[0], statusOK, "subtitles valid", colorize))
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintln(out, renderStatusLine(args[0], statusError, issue, colorize))
			}
			return fmt.Errorf("%d subtitle issue(s) found", len(issues))
		},
	}
	cmd.Flags().Float64Var(&total, "total", 0, "Expected length in seconds; 0 skips the coverage check (default render.total_seconds)")
	return cmd
}
