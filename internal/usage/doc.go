// Package usage defines the tracked IDE usage records.
//
// Each record kind (command, file, java element, launch, part, perspective,
// session, task file) is a plain value-like struct handled by pointer. A nil
// pointer is an absent record. Identity fields that may be missing are empty
// strings or nil pointers; callers must treat those as "unknown", never as a
// value to compare.
//
// This package contains type definitions only. It imports nothing internal so
// that merge, store and tracker can all depend on it.
package usage
