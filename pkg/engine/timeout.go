package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/supportmesh/pkg/scene"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is wrapped by the error returned when a script runs too long.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer Evaluate call started while
	// this one was running.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// outcome carries one evaluation's output back from its goroutine.
type outcome struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// await blocks until ch delivers, ctx is done, or timeout elapses. A result
// that arrives after a newer evaluation has started is dropped. The
// evaluating goroutine may outlive a timeout; its buffered send then goes
// unread.
func (e *Engine) await(ctx context.Context, ch <-chan outcome, gen uint64, timeout time.Duration) (*scene.Scene, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case res := <-ch:
		if gen != e.currentGeneration() {
			return nil, nil, ErrSuperseded
		}
		return res.scene, res.errors, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
	}
}

func (e *Engine) currentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// nextGeneration marks the start of a new evaluation and returns its number.
func (e *Engine) nextGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}
