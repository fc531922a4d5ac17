package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bartender/internal/config"
	"bartender/internal/daemonrun"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	diagnostic := flag.Bool("diagnostic", false, "Write an additional DEBUG log under log_dir/debug")
	flag.Parse()

	if err := run(context.Background(), *configPath, *diagnostic); err != nil {
		fmt.Fprintf(os.Stderr, "bartenderd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, diagnostic bool) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warn: unable to load .env: %v\n", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	return daemonrun.Run(ctx, cfg, daemonrun.Options{
		LogLevel:   cfg.Logging.Level,
		Diagnostic: diagnostic,
		Version:    version,
	})
}
