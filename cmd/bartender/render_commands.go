package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bartender/internal/config"
	"bartender/internal/render"
)

func renderOptions(cfg *config.Config, ctx *commandContext) (render.Options, error) {
	logger, err := ctx.logger(cfg)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		Fonts:   render.LoadFonts(cfg.Render.FontRegular, cfg.Render.FontBold),
		Workers: cfg.Render.Workers,
		Logger:  logger,
	}, nil
}

func newPlaceholdersCommand(ctx *commandContext) *cobra.Command {
	var count int
	var dir string

	cmd := &cobra.Command{
		Use:   "placeholders",
		Short: "Render numbered placeholder frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				count = cfg.Render.FallbackPlaceholders
			}
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			opts, err := renderOptions(cfg, ctx)
			if err != nil {
				return err
			}
			paths, err := render.Placeholders(cmd.Context(), count, dir, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range paths {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of frames (default render.fallback_placeholders)")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Output directory")
	return cmd
}

func newCardCommand(ctx *commandContext) *cobra.Command {
	var title string
	var spec string
	var outPath string

	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render the recipe card frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("title") {
				title = cfg.Lesson.Name
			}
			if !cmd.Flags().Changed("spec") {
				spec = cfg.Lesson.Spec
			}
			if dir := filepath.Dir(outPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			opts, err := renderOptions(cfg, ctx)
			if err != nil {
				return err
			}
			recipe := render.RecipeFor(title, spec)
			if err := render.Card(recipe, outPath, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %q card to %s\n", recipe.Title, outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Card title (default lesson.name)")
	cmd.Flags().StringVar(&spec, "spec", "", "Recipe spec (default lesson.spec)")
	cmd.Flags().StringVarP(&outPath, "out", "o", render.CardFileName, "Destination PNG")
	return cmd
}
