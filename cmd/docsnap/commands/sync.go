package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/docsnap/internal/docsync"
	"git.home.luguber.info/inful/docsnap/internal/metrics"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	MetricsFile string `name:"metrics-file" help:"Write run metrics in Prometheus text format to this file (overrides metrics.textfile)" type:"path"`
}

func (s *SyncCmd) Run(g *Global, root *CLI) error {
	return RunSync(context.Background(), g, root, s.MetricsFile)
}

// RunSync performs one sync and optionally exports its metrics.
func RunSync(ctx context.Context, g *Global, root *CLI, metricsFile string) error {
	recorder := metrics.NewPrometheusRecorder(nil)
	engine, cfg, err := root.newEngine(g, docsync.WithRecorder(recorder))
	if err != nil {
		return err
	}

	fmt.Println("Syncing documentation files...")
	res, runErr := engine.Run(ctx)

	if metricsFile == "" {
		metricsFile = cfg.Metrics.Textfile
	}
	if metricsFile != "" {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			g.Logger.Warn("Failed to write metrics textfile", slog.String("path", metricsFile), slog.String("error", err.Error()))
		}
	}
	if runErr != nil {
		return runErr
	}
	if n := len(res.Missing()); n > 0 {
		g.Logger.Warn("Some sources were not found", slog.Int("missing", n))
	}
	return nil
}
