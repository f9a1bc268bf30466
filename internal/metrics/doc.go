// Package metrics records what a sync run did.
//
// Components receive a Recorder and default to NoopRecorder, so callers never
// nil-check:
//
//	engine := docsync.New(cfg, docsync.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers its collectors on a caller supplied registry.
// Because a sync is a short-lived process, the registry is not served over HTTP;
// WriteTextfile dumps it in the text exposition format for the node exporter
// textfile collector.
package metrics
