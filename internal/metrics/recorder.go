package metrics

import "time"

// ResultLabel enumerates run outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// DocumentOutcome is what happened to one Sync Map entry.
type DocumentOutcome string

const (
	DocumentConverted DocumentOutcome = "converted"
	DocumentCopied    DocumentOutcome = "copied"
	DocumentUnchanged DocumentOutcome = "unchanged"
	DocumentMissing   DocumentOutcome = "missing"
	DocumentFailed    DocumentOutcome = "failed"
)

// Recorder defines observability hooks for sync runs. Implementations must be
// safe to call with zero values.
type Recorder interface {
	IncDocument(outcome DocumentOutcome)
	ObserveTransformDuration(d time.Duration)
	AddStageChanges(stage string, n int)
	IncLinkRemoval(reason string)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDocument(DocumentOutcome)            {}
func (NoopRecorder) ObserveTransformDuration(time.Duration) {}
func (NoopRecorder) AddStageChanges(string, int)            {}
func (NoopRecorder) IncLinkRemoval(string)                  {}
func (NoopRecorder) ObserveRunDuration(time.Duration)       {}
func (NoopRecorder) IncRunOutcome(ResultLabel)              {}
