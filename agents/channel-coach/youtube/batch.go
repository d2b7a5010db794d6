package youtube

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeAuthExpired
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeAuthExpired:
		return "auth_expired"
	default:
		return "error"
	}
}

// Outcome is the settled result of one batch task.
type Outcome[T any] struct {
	Kind  OutcomeKind
	Value T
	Err   error
}

type Task[T any] func(ctx context.Context) (T, error)

// NewLimiter paces analytics calls to stay inside the API quota.
// A non-positive rps disables pacing.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), max(burst, 1))
}

// RunBatch runs tasks in order, one at a time. Once a task reports
// ErrUnauthenticated no further task is started, since every later call would
// fail the same way. The returned slice covers only the tasks that ran; the
// error is non-nil only when ctx ended the batch early.
func RunBatch[T any](ctx context.Context, limiter *rate.Limiter, tasks []Task[T]) ([]Outcome[T], error) {
	outcomes := make([]Outcome[T], 0, len(tasks))

	for _, task := range tasks {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return outcomes, err
			}
		}
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		value, err := task(ctx)
		switch {
		case err == nil:
			outcomes = append(outcomes, Outcome[T]{Kind: OutcomeOK, Value: value})
		case errors.Is(err, ErrUnauthenticated):
			outcomes = append(outcomes, Outcome[T]{Kind: OutcomeAuthExpired, Err: err})
			return outcomes, nil
		default:
			outcomes = append(outcomes, Outcome[T]{Kind: OutcomeError, Err: err})
		}
	}

	return outcomes, nil
}

// AuthExpired reports whether any outcome hit an expired token.
func AuthExpired[T any](outcomes []Outcome[T]) bool {
	for _, o := range outcomes {
		if o.Kind == OutcomeAuthExpired {
			return true
		}
	}
	return false
}
