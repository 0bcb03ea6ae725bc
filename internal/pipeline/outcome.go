// outcome.go - Per-stage result policy

package pipeline

// Status tags a stage result. Degraded means the stage failed but a declared
// fallback value lets the pipeline continue; Fatal means no later stage can
// compensate and the request must surface an error.
type Status int

const (
	StatusSuccess Status = iota
	StatusDegraded
	StatusFatal
)

// Outcome carries a stage's value together with its failure policy. Each
// stage declares up front whether its failures degrade or are fatal, instead
// of scattering catch-and-continue through the orchestrator.
type Outcome[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Success wraps a fully successful stage value.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Status: StatusSuccess, Value: v}
}

// Degraded wraps a declared fallback value after a stage failure.
func Degraded[T any](fallback T, err error) Outcome[T] {
	return Outcome[T]{Status: StatusDegraded, Value: fallback, Err: err}
}

// Fatal marks a stage failure with no usable fallback.
func Fatal[T any](err error) Outcome[T] {
	var zero T
	return Outcome[T]{Status: StatusFatal, Value: zero, Err: err}
}

// Failed reports whether the outcome is fatal.
func (o Outcome[T]) Failed() bool {
	return o.Status == StatusFatal
}

// statusLabel maps an outcome status to the step-log vocabulary.
func (o Outcome[T]) statusLabel() string {
	switch o.Status {
	case StatusSuccess:
		return "success"
	case StatusDegraded:
		return "degraded"
	default:
		return "failed"
	}
}
