// Package metrics provides observability hooks for generation runs. Components
// receive a Recorder through dependency injection; NoopRecorder is the default
// so callers never nil-check.
package metrics

import "time"

// Recorder defines the hooks recorded during a generation run. Implementations
// may forward to Prometheus or stay silent.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	SetEntityCount(kind string, n int)
	SetDocumentsWritten(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) SetEntityCount(string, int)                 {}
func (NoopRecorder) SetDocumentsWritten(int)                    {}
