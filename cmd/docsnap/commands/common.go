package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsnap/internal/config"
	"git.home.luguber.info/inful/docsnap/internal/docsync"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/git"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path (relative paths resolve against the repository root)" default:"docsnap.yaml"`
	Verbose  bool             `short:"v" help:"Enable verbose logging"`
	RepoRoot string           `name:"repo-root" help:"Repository root (default: detected from the working directory)" type:"path"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync     SyncCmd     `cmd:"" default:"withargs" help:"Sync documentation into the docs tree (default)"`
	Check    CheckCmd    `cmd:"" help:"Report documents that are out of date without writing"`
	Validate ValidateCmd `cmd:"" help:"Validate the configuration and package descriptor"`
	Watch    WatchCmd    `cmd:"" help:"Sync, then re-sync whenever a source changes"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if v := os.Getenv(config.EnvLogLevel); v != "" {
		level = config.NormalizeLogLevel(v).SlogLevel()
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level, config.LogFormatText)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// repositoryRoot returns the --repo-root flag or the repository enclosing
// the working directory.
func (c *CLI) repositoryRoot() (string, error) {
	if c.RepoRoot != "" {
		return filepath.Abs(c.RepoRoot)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to get working directory").Build()
	}
	root, err := git.ResolveRoot(wd)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to detect repository root").Build()
	}
	return root, nil
}

// configPath resolves --config against root.
func (c *CLI) configPath(root string) string {
	if filepath.IsAbs(c.Config) {
		return c.Config
	}
	return filepath.Join(root, c.Config)
}

// loadConfig loads the configuration and reconfigures logging from it. The
// --verbose flag wins over the configured level.
func (c *CLI) loadConfig(g *Global) (*config.Config, string, error) {
	root, err := c.repositoryRoot()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(c.configPath(root))
	if err != nil {
		if errors.IsClassified(err) {
			return nil, "", err
		}
		return nil, "", errors.ConfigError("failed to load configuration").WithCause(err).Build()
	}

	level := cfg.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := newLogger(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)
	g.Logger = logger
	return cfg, root, nil
}

// newEngine loads the configuration and returns an engine for the repository.
func (c *CLI) newEngine(g *Global, opts ...docsync.Option) (*docsync.Engine, *config.Config, error) {
	cfg, root, err := c.loadConfig(g)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]docsync.Option{docsync.WithLogger(g.Logger)}, opts...)
	return docsync.New(cfg, root, opts...), cfg, nil
}
