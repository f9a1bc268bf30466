package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsnap"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg               *prom.Registry
	documents         *prom.CounterVec
	transformDuration prom.Histogram
	stageChanges      *prom.CounterVec
	linkRemovals      *prom.CounterVec
	runDuration       prom.Histogram
	runOutcome        *prom.CounterVec
	lastRun           prom.Gauge
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.documents = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "documents_total",
		Help:      "Synced documents by outcome",
	}, []string{"outcome"})
	pr.transformDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "transform_duration_seconds",
		Help:      "Duration of single document transforms",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})
	pr.stageChanges = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "stage_changes_total",
		Help:      "Changes made by each transform stage",
	}, []string{"stage"})
	pr.linkRemovals = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "link_removals_total",
		Help:      "Links removed by the resolver, by reason",
	}, []string{"reason"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total sync run duration",
		Buckets:   prom.DefBuckets,
	})
	pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Sync runs by final status",
	}, []string{"outcome"})
	pr.lastRun = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last sync run finished",
	})
	reg.MustRegister(pr.documents, pr.transformDuration, pr.stageChanges, pr.linkRemovals,
		pr.runDuration, pr.runOutcome, pr.lastRun)
	return pr
}

// Registry returns the registry the collectors live on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) IncDocument(outcome DocumentOutcome) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveTransformDuration(d time.Duration) {
	if p == nil || p.transformDuration == nil {
		return
	}
	p.transformDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddStageChanges(stage string, n int) {
	if p == nil || p.stageChanges == nil || n <= 0 {
		return
	}
	p.stageChanges.WithLabelValues(stage).Add(float64(n))
}

func (p *PrometheusRecorder) IncLinkRemoval(reason string) {
	if p == nil || p.linkRemovals == nil {
		return
	}
	p.linkRemovals.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome ResultLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
	p.lastRun.SetToCurrentTime()
}

// WriteTextfile writes every metric on the recorder's registry to path in the
// Prometheus text format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
