package types

// Reporter receives progress updates from long-running operations. Both
// methods are fire-and-forget: implementations must not block the calling
// goroutine and must not return errors. A nil Reporter is always accepted
// by the operations that take one; use Progress and Percent to call through
// a possibly-nil value.
type Reporter interface {
	// Message reports a human-readable status line before or during an
	// operation.
	Message(msg string)

	// Percent reports batch completion as done out of total.
	Percent(done, total int)
}

// Progress calls r.Message if r is non-nil.
func Progress(r Reporter, msg string) {
	if r != nil {
		r.Message(msg)
	}
}

// Percent calls r.Percent if r is non-nil.
func Percent(r Reporter, done, total int) {
	if r != nil {
		r.Percent(done, total)
	}
}

// ReporterFunc adapts a plain function to the Reporter interface. Percent
// updates are dropped.
type ReporterFunc func(msg string)

func (f ReporterFunc) Message(msg string) { f(msg) }

func (f ReporterFunc) Percent(done, total int) {}
