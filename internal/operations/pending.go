package operations

import "context"

// Pending is the future result of an operation started with Go.
type Pending[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn in its own goroutine and returns its future result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Pending[T] {
	p := &Pending[T]{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.val, p.err = fn(ctx)
	}()
	return p
}

// Wait blocks until the operation finishes or ctx is done. Giving up on
// the wait does not stop the operation; cancel the context passed to Go
// for that.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-p.done:
		return p.val, p.err
	}
}

// WaitAll waits for every pending result and returns the first error.
func WaitAll[T any](ctx context.Context, pending ...*Pending[T]) ([]T, error) {
	results := make([]T, len(pending))
	var firstErr error
	for i, p := range pending {
		v, err := p.Wait(ctx)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results[i] = v
	}
	return results, firstErr
}
