package docsync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsnap/internal/config"
	"git.home.luguber.info/inful/docsnap/internal/convert"
	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/git"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
	"git.home.luguber.info/inful/docsnap/internal/metrics"
	"git.home.luguber.info/inful/docsnap/internal/registry"
	"git.home.luguber.info/inful/docsnap/internal/syncmap"
)

// Engine syncs one repository's documentation.
type Engine struct {
	cfg      *config.Config
	root     string
	out      io.Writer
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets where progress lines are printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRecorder sets the metrics recorder. Defaults to metrics.NoopRecorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// New returns an Engine for the repository rooted at root.
func New(cfg *config.Config, root string, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		root:     root,
		out:      os.Stdout,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the repository root the engine works in.
func (e *Engine) Root() string { return e.root }

// DocsDir returns the absolute documentation root.
func (e *Engine) DocsDir() string { return filepath.Join(e.root, filepath.FromSlash(e.cfg.DocsDir)) }

// Document is the outcome for one Sync Map entry.
type Document struct {
	Entry       syncmap.Entry
	Outcome     metrics.DocumentOutcome
	Fingerprint string
	Report      *convert.Report
}

// Result summarizes a run.
type Result struct {
	RunID        string
	Head         string
	AssetsCopied bool
	Documents    []Document
	Warnings     int
	Duration     time.Duration
}

// Synced returns the number of documents written or already up to date.
func (r Result) Synced() int {
	n := 0
	for _, d := range r.Documents {
		switch d.Outcome {
		case metrics.DocumentConverted, metrics.DocumentCopied, metrics.DocumentUnchanged:
			n++
		}
	}
	return n
}

// Missing returns the sources that were skipped because they do not exist.
func (r Result) Missing() []string {
	var out []string
	for _, d := range r.Documents {
		if d.Outcome == metrics.DocumentMissing {
			out = append(out, d.Entry.Source)
		}
	}
	return out
}

// Plan loads the package descriptor and builds the Sync Map.
func (e *Engine) Plan() (*syncmap.Map, *registry.Registry, error) {
	reg, err := registry.Load(filepath.Join(e.root, filepath.FromSlash(e.cfg.Descriptor)))
	if err != nil {
		return nil, nil, err
	}

	roots := make([]syncmap.Entry, 0, len(e.cfg.RootDocuments))
	for _, d := range e.cfg.RootDocuments {
		roots = append(roots, syncmap.Entry{
			Source:      d.Source,
			Destination: d.Destination,
			Transform:   d.Transform,
			Required:    d.Required,
		})
	}
	sm, err := syncmap.Build(roots, reg.Packages(), syncmap.Layout{
		DestinationDir: e.cfg.Packages.DestinationDir,
		Readme:         e.cfg.Packages.Readme,
	})
	if err != nil {
		return nil, nil, errors.ConfigError("invalid sync map").WithCause(err).Build()
	}
	return sm, reg, nil
}

// Transformer returns the converter configured for sm.
func (e *Engine) Transformer(sm *syncmap.Map) *convert.Transformer {
	prefixes := make([]convert.AssetPrefix, 0, len(e.cfg.AssetPrefixes))
	for _, p := range e.cfg.AssetPrefixes {
		prefixes = append(prefixes, convert.AssetPrefix{From: p.From, To: p.To})
	}
	var passThrough []string
	if e.cfg.AssetsDir != "" {
		passThrough = append(passThrough, path.Base(syncmap.Clean(e.cfg.AssetsDir)))
	}
	b := e.cfg.Badges
	return convert.New(convert.Options{
		SyncMap: sm,
		Repo:    os.DirFS(e.root),
		Badges: convert.BadgeRules{
			StaticDomains:      b.StaticDomains,
			DynamicDomains:     b.DynamicDomains,
			AggregatorDomains:  b.AggregatorDomains,
			AggregatorKeywords: b.AggregatorKeywords,
		},
		RemoveLabels:    b.RemoveLabels,
		AssetPrefixes:   prefixes,
		LicenseFile:     e.cfg.Links.LicenseFile,
		PackagesDir:     e.cfg.Packages.DestinationDir,
		PassThroughDirs: passThrough,
	})
}

// Run performs one full sync. Missing optional sources are reported and
// skipped; a missing descriptor or required source aborts before anything is
// written.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}
	log := e.logger.With(logfields.RunID(res.RunID))

	res.Head = e.head(log)
	log.Info("Starting documentation sync", slog.String("root", e.root), slog.String("head", res.Head))

	err := e.run(ctx, log, &res)
	res.Duration = time.Since(start)
	e.recorder.ObserveRunDuration(res.Duration)

	switch {
	case err != nil:
		e.recorder.IncRunOutcome(metrics.ResultFatal)
		log.Error("Documentation sync failed", logfields.Error(err))
	case res.Warnings > 0:
		e.recorder.IncRunOutcome(metrics.ResultWarning)
	default:
		e.recorder.IncRunOutcome(metrics.ResultSuccess)
	}
	return res, err
}

func (e *Engine) run(ctx context.Context, log *slog.Logger, res *Result) error {
	sm, _, err := e.Plan()
	if err != nil {
		return err
	}
	if err := e.checkRequired(sm); err != nil {
		return err
	}

	copied, err := e.copyAssets(log)
	if err != nil {
		return err
	}
	res.AssetsCopied = copied

	tr := e.Transformer(sm)
	auditor := newAuditor(sm, e.DocsDir())
	docsDir := e.DocsDir()

	for _, entry := range sm.Entries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		entryLog := log.With(logfields.Source(entry.Source), logfields.Destination(entry.Destination))
		if entry.Package != "" {
			entryLog = entryLog.With(logfields.Package(entry.Package))
		}
		entryStart := time.Now()

		content, report, err := e.render(entry, tr)
		if err != nil {
			if os.IsNotExist(err) {
				_, _ = fmt.Fprintf(e.out, "  WARNING: Source not found: %s\n", entry.Source)
				entryLog.Warn("Source not found; skipping")
				e.recorder.IncDocument(metrics.DocumentMissing)
				res.Documents = append(res.Documents, Document{Entry: entry, Outcome: metrics.DocumentMissing})
				res.Warnings++
				continue
			}
			e.recorder.IncDocument(metrics.DocumentFailed)
			return err
		}

		doc := Document{Entry: entry, Report: report, Fingerprint: Fingerprint(content)}
		dest := filepath.Join(docsDir, filepath.FromSlash(entry.Destination))
		if existing, readErr := os.ReadFile(dest); readErr == nil && bytes.Equal(existing, content) {
			doc.Outcome = metrics.DocumentUnchanged
			entryLog.Debug("Destination up to date")
		} else {
			if err := writeFileAtomic(dest, content); err != nil {
				e.recorder.IncDocument(metrics.DocumentFailed)
				return errors.FileSystemError("failed to write document").
					WithCause(err).
					WithContext("destination", entry.Destination).
					Build()
			}
			doc.Outcome = metrics.DocumentCopied
			if entry.Transform {
				doc.Outcome = metrics.DocumentConverted
			}
		}
		e.recorder.IncDocument(doc.Outcome)

		suffix := ""
		if entry.Transform {
			suffix = " (converted)"
			e.recordReport(entryLog, report)
			for _, f := range auditor.audit(entry.Destination, content) {
				entryLog.Warn("Unresolved link in converted document",
					slog.String("target", f.Target), slog.String("kind", string(f.Kind)))
				res.Warnings++
			}
		}
		_, _ = fmt.Fprintf(e.out, "  [OK] %s -> %s%s\n", entry.Source, entry.Destination, suffix)
		entryLog.Debug("Document synced",
			logfields.Outcome(string(doc.Outcome)),
			slog.String("fingerprint", doc.Fingerprint),
			logfields.DurationMS(float64(time.Since(entryStart).Microseconds())/1000))
		res.Documents = append(res.Documents, doc)
	}

	_, _ = fmt.Fprintf(e.out, "\n[OK] Synced %d documentation files\n", res.Synced())
	log.Info("Documentation sync complete",
		logfields.Count(res.Synced()),
		slog.Int("missing", len(res.Missing())),
		slog.Int("warnings", res.Warnings))
	return nil
}

// render produces the destination content for entry. A missing source is
// returned as an error satisfying os.IsNotExist.
func (e *Engine) render(entry syncmap.Entry, tr *convert.Transformer) ([]byte, *convert.Report, error) {
	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(entry.Source)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, err
		}
		return nil, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read source").
			WithContext("source", entry.Source).
			Build()
	}
	if !entry.Transform {
		return data, nil, nil
	}

	start := time.Now()
	out, report, err := tr.TransformWithReport(string(data))
	e.recorder.ObserveTransformDuration(time.Since(start))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, nil, ce.WithContext("source", entry.Source)
		}
		return nil, nil, err
	}
	return []byte(out), &report, nil
}

func (e *Engine) recordReport(log *slog.Logger, report *convert.Report) {
	if report == nil {
		return
	}
	for _, s := range report.Stages {
		e.recorder.AddStageChanges(s.Name, s.Changes)
		if s.Changes > 0 {
			log.Debug("Stage applied", logfields.Stage(s.Name), logfields.Count(s.Changes))
		}
	}
	for _, r := range report.Removals {
		e.recorder.IncLinkRemoval(string(r.Reason))
		log.Info("Removed link",
			slog.String("target", r.Target),
			slog.String("kind", r.Kind.String()),
			slog.String("reason", string(r.Reason)))
	}
}

// checkRequired fails when a required source cannot be read.
func (e *Engine) checkRequired(sm *syncmap.Map) error {
	for _, entry := range sm.Entries() {
		if !entry.Required {
			continue
		}
		src := filepath.Join(e.root, filepath.FromSlash(entry.Source))
		f, err := os.Open(src)
		if err != nil {
			return errors.FileSystemError("required source is not readable").
				WithCause(err).
				WithContext("source", entry.Source).
				Build()
		}
		_ = f.Close()
	}
	return nil
}

// copyAssets replaces <docs>/<assets base> with a fresh copy of the assets
// directory. It reports false when there is nothing to copy.
func (e *Engine) copyAssets(log *slog.Logger) (bool, error) {
	if e.cfg.AssetsDir == "" {
		return false, nil
	}
	src := filepath.Join(e.root, filepath.FromSlash(e.cfg.AssetsDir))
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		log.Debug("No assets directory; skipping copy", logfields.Path(e.cfg.AssetsDir))
		return false, nil
	}

	name := filepath.Base(src)
	dst := filepath.Join(e.DocsDir(), name)
	if err := os.RemoveAll(dst); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to remove previous assets copy").
			WithContext("path", dst).
			Build()
	}
	if err := copyDir(src, dst); err != nil {
		return false, errors.WrapError(err, errors.CategoryFileSystem, "failed to copy assets").
			WithContext("path", e.cfg.AssetsDir).
			Build()
	}
	_, _ = fmt.Fprintf(e.out, "  [OK] %s/ directory copied to %s/\n", name, name)
	return true, nil
}

func (e *Engine) head(log *slog.Logger) string {
	repo, err := git.Detect(e.root)
	if err != nil {
		log.Debug("Not a git repository; commit unknown", logfields.Error(err))
		return ""
	}
	head, err := repo.ShortHead()
	if err != nil {
		log.Debug("Could not resolve HEAD", logfields.Error(err))
		return ""
	}
	return head
}
