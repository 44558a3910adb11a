// Package metrics defines observability hooks for lint and render activity.
//
// Components receive a Recorder by injection and default to NoopRecorder, so
// metrics cost nothing unless the preview server wires in the Prometheus
// implementation.
package metrics

import "time"

// Recorder defines the metric hooks emitted by the linter, the renderer, and
// the preview rebuild loop. Implementations must tolerate concurrent calls.
type Recorder interface {
	ObserveLintDuration(d time.Duration)
	IncLintIssue(rule string, severity string)
	SetCorpusFiles(n int)
	ObserveRenderDuration(d time.Duration)
	IncRebuild(trigger string) // trigger: fsevent|schedule|startup
	IncRebuildSkipped()
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveLintDuration(time.Duration)   {}
func (NoopRecorder) IncLintIssue(string, string)         {}
func (NoopRecorder) SetCorpusFiles(int)                  {}
func (NoopRecorder) ObserveRenderDuration(time.Duration) {}
func (NoopRecorder) IncRebuild(string)                   {}
func (NoopRecorder) IncRebuildSkipped()                  {}
