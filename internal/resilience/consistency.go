package resilience

import (
	"context"
	"fmt"
)

// Source fetches one copy of the data under validation.
type Source[T any] func(ctx context.Context) (T, error)

// ConsistencyResult classifies every source against the reference (the first
// source's result). Data is nil when there were no sources.
type ConsistencyResult[T any] struct {
	Consistent bool
	Data       *T
	Conflicts  []T
}

// ValidateConsistency fetches all sources concurrently, waits for all of
// them to settle, and compares each result to the first one with equal.
// A single failing source fails the whole validation; partial agreement is
// never reported as consistent.
func ValidateConsistency[T any](ctx context.Context, sources []Source[T], equal func(a, b T) bool) (ConsistencyResult[T], error) {
	if len(sources) == 0 {
		return ConsistencyResult[T]{Consistent: true}, nil
	}

	type fetchResult struct {
		index int
		value T
		err   error
	}

	resultsChan := make(chan fetchResult, len(sources))
	for i, source := range sources {
		go func(index int, fetch Source[T]) {
			value, err := fetch(ctx)
			resultsChan <- fetchResult{index: index, value: value, err: err}
		}(i, source)
	}

	values := make([]T, len(sources))
	var firstErr error
	for range sources {
		result := <-resultsChan
		if result.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("source %d failed: %w", result.index, result.err)
		}
		values[result.index] = result.value
	}
	if firstErr != nil {
		return ConsistencyResult[T]{}, firstErr
	}

	reference := values[0]
	out := ConsistencyResult[T]{Consistent: true, Data: &reference}
	for _, value := range values[1:] {
		if !equal(reference, value) {
			out.Consistent = false
			out.Conflicts = append(out.Conflicts, value)
		}
	}
	return out, nil
}
