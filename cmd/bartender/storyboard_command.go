package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bartender/internal/fileutil"
	"bartender/internal/lesson"
	"bartender/internal/storyboard"
)

func newStoryboardCommand(ctx *commandContext) *cobra.Command {
	var req storyboard.Request
	var outPath string
	var srtPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "storyboard",
		Short: "Draft a lesson storyboard with the language model",
		Long: "Draft a lesson storyboard with the language model.\n\n" +
			"Blank flags fall back to the [lesson] defaults in the configuration.\n" +
			"With --out the storyboard is saved as YAML (or JSON for a .json path)\n" +
			"for later use with `bartender srt build`.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.configAndLogger()
			if err != nil {
				return err
			}
			svc, _, err := lesson.NewFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			result, err := svc.Draft(cmd.Context(), req)
			if err != nil {
				return err
			}

			if path := strings.TrimSpace(outPath); path != "" {
				if err := storyboard.WriteFile(result.Storyboard, path); err != nil {
					return fmt.Errorf("write storyboard: %w", err)
				}
			}
			if path := strings.TrimSpace(srtPath); path != "" {
				if err := fileutil.WriteFileAtomic(path, []byte(result.SRT), 0o644); err != nil {
					return fmt.Errorf("write subtitles: %w", err)
				}
			}

			if asJSON {
				return writeJSON(cmd, result)
			}
			printLesson(cmd, result, outPath, srtPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Cocktail name")
	cmd.Flags().StringVar(&req.Spec, "spec", "", "Recipe spec, e.g. \"gin 1 oz, campari 1 oz; stir; rocks\"")
	cmd.Flags().StringVar(&req.Language, "language", "", "Narration language")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Save the storyboard to this file (.yaml or .json)")
	cmd.Flags().StringVar(&srtPath, "srt-out", "", "Save the generated subtitles to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func printLesson(cmd *cobra.Command, result lesson.Result, outPath, srtPath string) {
	out := cmd.OutOrStdout()
	sb := result.Storyboard
	fmt.Fprintf(out, "%s (%s), %d steps\n\n", sb.CocktailName, sb.Language, len(sb.Steps))
	for _, step := range sb.Steps {
		fmt.Fprintf(out, "%2d. %s\n", step.Number, step.Text())
	}
	fmt.Fprintf(out, "    %s\n\n", sb.Closing())
	fmt.Fprintln(out, "Narration:")
	fmt.Fprintln(out, result.NarrationScript)
	if outPath != "" {
		fmt.Fprintf(out, "\nStoryboard saved to %s\n", outPath)
	}
	if srtPath != "" {
		fmt.Fprintf(out, "Subtitles saved to %s\n", srtPath)
	}
}
