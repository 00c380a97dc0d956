package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/usagelog/internal/usage"
)

// VerifyResult compares a stored partition with its rebuilt form.
type VerifyResult struct {
	Day        string
	Workspace  string
	Flushes    int
	Stored     int
	Rebuilt    int
	Consistent bool
	Mismatches []string // human-readable differences, empty when consistent
}

// Rebuild replays every flush of a partition, in seq order, through the
// registry starting from an empty partition. The stored partition is not read
// or changed. Events are ordered by kind, then position, like Events.
func (s *Store) Rebuild(ctx context.Context, day, workspace string) ([]usage.Event, error) {
	flushes, err := s.Flushes(ctx, day, workspace)
	if err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	events := []usage.Event{}
	for _, f := range flushes {
		batch, err := s.flushEvents(ctx, f.Token)
		if err != nil {
			return nil, fmt.Errorf("rebuild: flush %s: %w", f.Token, err)
		}
		events, err = s.registry.Reconcile(events, batch)
		if err != nil {
			return nil, fmt.Errorf("rebuild: flush %s: %w", f.Token, err)
		}
	}
	return sortByKind(events), nil
}

// Verify rebuilds a partition and compares it with what is stored, payload by
// payload. Differences are reported in the result, not as an error.
func (s *Store) Verify(ctx context.Context, day, workspace string) (VerifyResult, error) {
	result := VerifyResult{Day: day, Workspace: workspace}

	flushes, err := s.Flushes(ctx, day, workspace)
	if err != nil {
		return result, fmt.Errorf("verify: %w", err)
	}
	result.Flushes = len(flushes)

	stored, err := s.Events(ctx, day, workspace)
	if err != nil {
		return result, fmt.Errorf("verify: %w", err)
	}
	rebuilt, err := s.Rebuild(ctx, day, workspace)
	if err != nil {
		return result, fmt.Errorf("verify: %w", err)
	}
	result.Stored = len(stored)
	result.Rebuilt = len(rebuilt)

	if len(stored) != len(rebuilt) {
		result.Mismatches = append(result.Mismatches,
			fmt.Sprintf("stored %d events, rebuilt %d", len(stored), len(rebuilt)))
	}
	for i := 0; i < min(len(stored), len(rebuilt)); i++ {
		a, err := marshalEvent(stored[i])
		if err != nil {
			return result, fmt.Errorf("verify: %w", err)
		}
		b, err := marshalEvent(rebuilt[i])
		if err != nil {
			return result, fmt.Errorf("verify: %w", err)
		}
		if a != b {
			result.Mismatches = append(result.Mismatches,
				fmt.Sprintf("%s[%d]: stored %s, rebuilt %s", stored[i].Kind(), i, a, b))
		}
	}
	result.Consistent = len(result.Mismatches) == 0
	return result, nil
}

// sortByKind orders events by kind name, keeping relative order within a kind.
func sortByKind(events []usage.Event) []usage.Event {
	slices.SortStableFunc(events, func(a, b usage.Event) int {
		switch {
		case a.Kind() < b.Kind():
			return -1
		case a.Kind() > b.Kind():
			return 1
		default:
			return 0
		}
	})
	return events
}
