package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/usagelog/internal/usage"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Flush describes one folded tracking period.
type Flush struct {
	Token     string `json:"token"`
	Day       string `json:"day"`
	Workspace string `json:"workspace"`
	Seq       int64  `json:"seq"`
	Records   int    `json:"records"`
}

// Events returns the reconciled events of a partition, optionally limited to
// the given kinds. Results are ordered by kind, then position.
//
// Returns an empty slice (not nil) if the partition is empty.
func (s *Store) Events(ctx context.Context, day, workspace string, kinds ...usage.Kind) ([]usage.Event, error) {
	events, err := readPartition(ctx, s.db, day, workspace)
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		return events, nil
	}

	want := make(map[usage.Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	filtered := []usage.Event{}
	for _, e := range events {
		if want[e.Kind()] {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// readPartition loads every event of (day, workspace) with deterministic ordering.
func readPartition(ctx context.Context, q queryer, day, workspace string) ([]usage.Event, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT kind, payload
		FROM events
		WHERE day = ? AND workspace = ?
		ORDER BY kind COLLATE BINARY ASC, position ASC
	`, day, workspace)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []usage.Event{}
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := unmarshalEvent(kind, payload)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Days returns the days that have events for workspace, ascending.
func (s *Store) Days(ctx context.Context, workspace string) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT day FROM events
		WHERE workspace = ?
		ORDER BY day ASC
	`, workspace)
}

// Workspaces returns every workspace with stored events, ascending.
func (s *Store) Workspaces(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT workspace FROM events
		ORDER BY workspace COLLATE BINARY ASC
	`)
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

// Flushes returns the flushes folded into a partition in seq order.
func (s *Store) Flushes(ctx context.Context, day, workspace string) ([]Flush, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, day, workspace, seq, records
		FROM flushes
		WHERE day = ? AND workspace = ?
		ORDER BY seq ASC
	`, day, workspace)
	if err != nil {
		return nil, fmt.Errorf("query flushes: %w", err)
	}
	defer rows.Close()

	flushes := []Flush{}
	for rows.Next() {
		var f Flush
		if err := rows.Scan(&f.Token, &f.Day, &f.Workspace, &f.Seq, &f.Records); err != nil {
			return nil, fmt.Errorf("scan flush: %w", err)
		}
		flushes = append(flushes, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flushes: %w", err)
	}
	return flushes, nil
}

// flushEvents returns the raw records of one flush in their original order.
func (s *Store) flushEvents(ctx context.Context, token string) ([]usage.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, payload
		FROM flush_events
		WHERE token = ?
		ORDER BY position ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query flush events: %w", err)
	}
	defer rows.Close()

	events := []usage.Event{}
	for rows.Next() {
		var kind, payload string
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, fmt.Errorf("scan flush event: %w", err)
		}
		e, err := unmarshalEvent(kind, payload)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flush events: %w", err)
	}
	return events, nil
}
