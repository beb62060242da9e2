package schedule

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Load is one independent data fetch.
type Load struct {
	Name string
	Run  func(ctx context.Context) error
}

// LoadError collects the failures of a LoadAll call, keyed by load name.
type LoadError struct {
	Failed map[string]error
}

func (e *LoadError) Error() string {
	errs := make([]error, 0, len(e.Failed))
	for _, name := range slices.Sorted(maps.Keys(e.Failed)) {
		errs = append(errs, fmt.Errorf("%s: %w", name, e.Failed[name]))
	}
	return errors.Join(errs...).Error()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}

// LoadAll runs every load concurrently and waits for all of them. A failing
// load does not cancel the others. It returns nil when all succeed,
// otherwise a *LoadError naming each failed load.
func LoadAll(ctx context.Context, loads ...Load) error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed map[string]error
	)
	for _, l := range loads {
		wg.Go(func() {
			if err := l.Run(ctx); err != nil {
				mu.Lock()
				if failed == nil {
					failed = make(map[string]error)
				}
				failed[l.Name] = err
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if failed == nil {
		return nil
	}
	return &LoadError{Failed: failed}
}

// Failed returns the error recorded for the named load, if any.
func Failed(err error, name string) error {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Failed[name]
	}
	return nil
}
