package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bartender/internal/config"
	"bartender/internal/deps"
	"bartender/internal/preflight"
	"bartender/internal/server"
)

const daemonProbeTimeout = 2 * time.Second

type statusReport struct {
	ConfigPath   string             `json:"config_path"`
	Daemon       *server.Health     `json:"daemon,omitempty"`
	DaemonError  string             `json:"daemon_error,omitempty"`
	Dependencies []deps.Status      `json:"dependencies"`
	Preflight    []preflight.Result `json:"preflight"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var checkLLM bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency, preflight, and daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusReport{
				ConfigPath:   ctx.configPath,
				Dependencies: preflight.CheckSystemDeps(cfg),
				Preflight:    preflight.RunAll(cmd.Context(), cfg),
			}
			if checkLLM {
				report.Preflight = append(report.Preflight, preflight.CheckLLM(cmd.Context(), cfg.LLM))
			}
			health, probeErr := probeDaemon(cmd.Context(), cfg)
			if probeErr != nil {
				report.DaemonError = probeErr.Error()
			} else {
				report.Daemon = health
			}

			if asJSON {
				return writeJSON(cmd, report)
			}
			printStatusReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&checkLLM, "check-llm", false, "Send a live request to the language model")
	return cmd
}

func printStatusReport(cmd *cobra.Command, report statusReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(out, line)
	}
	if report.Daemon != nil {
		kind := statusOK
		if report.Daemon.Status != server.HealthOK {
			kind = statusWarn
		}
		fmt.Fprintln(out, renderStatusLine("HTTP API", kind, report.Daemon.Status, colorize))
		if limiter := report.Daemon.Limiter; limiter != nil {
			msg := fmt.Sprintf("%d/%d running, %d waiting", limiter.InFlight, limiter.Capacity, limiter.Waiting)
			fmt.Fprintln(out, renderStatusLine("Compose slots", statusInfo, msg, colorize))
		}
		if report.Daemon.FontSource != "" {
			fmt.Fprintln(out, renderStatusLine("Fonts", statusInfo, report.Daemon.FontSource, colorize))
		}
	} else {
		fmt.Fprintln(out, renderStatusLine("HTTP API", statusInfo, "not reachable", colorize))
	}
	if report.ConfigPath != "" {
		fmt.Fprintln(out, renderStatusLine("Config", statusInfo, report.ConfigPath, colorize))
	}
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Dependencies", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, dependencyTable(report.Dependencies))
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Preflight", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, result := range report.Preflight {
		fmt.Fprintln(out, renderStatusLine(result.Name, preflightKind(result), result.Detail, colorize))
	}
}

// probeDaemon asks a running daemon on the configured bind for its health.
func probeDaemon(ctx context.Context, cfg *config.Config) (*server.Health, error) {
	url, err := healthURL(cfg.Server.Bind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, daemonProbeTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daemon not reachable at %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("daemon health returned %s", resp.Status)
	}
	var health server.Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode daemon health: %w", err)
	}
	return &health, nil
}

func healthURL(bind string) (string, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(bind))
	if err != nil {
		return "", fmt.Errorf("parse server.bind %q: %w", bind, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api/health", nil
}
