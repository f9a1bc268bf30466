package docsync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/logfields"
)

// DriftReason says why a destination is out of date.
type DriftReason string

const (
	DriftMissing DriftReason = "missing"
	DriftChanged DriftReason = "changed"
)

// Drift is one destination whose content differs from what a sync would write.
type Drift struct {
	Source      string
	Destination string
	Reason      DriftReason
}

// CheckResult is the outcome of a dry run.
type CheckResult struct {
	RunID   string
	Drift   []Drift
	Missing []string
}

// Check renders every document in memory and compares it with the docs tree
// without writing anything.
func (e *Engine) Check(ctx context.Context) (CheckResult, error) {
	res := CheckResult{RunID: uuid.NewString()}
	log := e.logger.With(logfields.RunID(res.RunID))

	sm, _, err := e.Plan()
	if err != nil {
		return res, err
	}
	if err := e.checkRequired(sm); err != nil {
		return res, err
	}

	tr := e.Transformer(sm)
	docsDir := e.DocsDir()
	for _, entry := range sm.Entries() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		content, _, err := e.render(entry, tr)
		if err != nil {
			if os.IsNotExist(err) {
				res.Missing = append(res.Missing, entry.Source)
				continue
			}
			return res, err
		}

		existing, err := os.ReadFile(filepath.Join(docsDir, filepath.FromSlash(entry.Destination)))
		switch {
		case err != nil:
			res.Drift = append(res.Drift, Drift{Source: entry.Source, Destination: entry.Destination, Reason: DriftMissing})
		case !bytes.Equal(existing, content):
			res.Drift = append(res.Drift, Drift{Source: entry.Source, Destination: entry.Destination, Reason: DriftChanged})
		}
	}

	for _, d := range res.Drift {
		_, _ = fmt.Fprintf(e.out, "  DRIFT: %s -> %s (%s)\n", d.Source, d.Destination, d.Reason)
	}
	log.Info("Documentation check complete",
		slog.Int("drift", len(res.Drift)),
		slog.Int("missing", len(res.Missing)))
	return res, nil
}

// Err returns a drift error when any destination is out of date.
func (r CheckResult) Err() error {
	if len(r.Drift) == 0 {
		return nil
	}
	return errors.DriftError("documentation is out of date; run docsnap sync").
		WithContext("destinations", len(r.Drift)).
		Build()
}
