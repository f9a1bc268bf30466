package commands

import (
	"context"
	"os/signal"
	"syscall"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct{}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine, _, err := root.newEngine(g)
	if err != nil {
		return err
	}
	g.Logger.Info("Watching documentation sources; press Ctrl+C to stop", "root", engine.Root())
	return engine.Watch(ctx)
}
