package sync

import "sync"

// Closer is a one-shot shutdown signal: Close asks an owned goroutine to
// stop, Done is what that goroutine selects on to notice. It carries no
// information about whether the goroutine has actually exited yet — a
// caller that needs to block until it has should pair a Closer with its
// own completion signal, closed by the goroutine itself on the way out.
// Safe to Close more than once.
type Closer struct {
	once sync.Once
	done chan struct{}
}

// NewCloser returns a Closer ready for use.
func NewCloser() *Closer {
	return &Closer{done: make(chan struct{})}
}

// Close signals the owned goroutine to stop. Idempotent.
func (c *Closer) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Done returns a channel closed once Close has been called.
func (c *Closer) Done() <-chan struct{} {
	return c.done
}
