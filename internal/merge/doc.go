// Package merge reconciles usage records accumulated during a tracking period.
//
// Each record kind has a Merger with two operations:
//   - IsMergeable reports whether two records describe the same logical event.
//     Records whose identity fields are absent are never mergeable; this is an
//     ordinary false, not an error.
//   - Merge combines two mergeable records into a newly allocated record.
//     Measures (counts, durations) are summed, aggregates (file path sets) are
//     unioned and nested values (task identifiers) are copied.
//
// # Contract
//
//   - Nil record arguments fail with ErrNilArgument from both operations.
//   - Merge on a pair that is not mergeable fails with ErrNotMergeable.
//   - Neither operand is ever modified, and the result never aliases them.
//
// MergeInto and MergeAll fold records into a collection using first-match
// linear scanning, which keeps insertion order. A nil Merger degrades both to
// plain appends.
//
// Registry maps a usage.Kind to its merger so callers holding heterogeneous
// []usage.Event slices can reconcile them without knowing concrete types.
//
// Nothing here is safe for concurrent use on the same collection.
package merge
