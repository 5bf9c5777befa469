package poller

import "context"

// Task is a poll loop running in the background.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}
	result T
	err    error
}

// Start runs p.Run in a new goroutine. Cancel the task (or ctx) when the
// consumer stops observing it so the loop does not outlive it.
func (p *Poller[T]) Start(ctx context.Context) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		t.result, t.err = p.Run(ctx)
	}()
	return t
}

// Cancel stops the loop. It does not wait for it to exit.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Done is closed when the loop has exited.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the loop exits and returns what Run returned.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.result, t.err
}
