package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/usagelog/internal/merge"
	"github.com/roach88/usagelog/internal/usage"
)

// DayLayout is the format of partition days.
const DayLayout = "2006-01-02"

// Day returns the UTC partition day of t.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// FoldRequest describes one closed tracking period to fold into a partition.
type FoldRequest struct {
	Day       string // YYYY-MM-DD
	Workspace string
	Token     string // unique per period; reused tokens are ignored
	Events    []usage.Event
}

// FoldResult reports what a fold did.
type FoldResult struct {
	Applied  bool  // false if the token had already been folded
	Seq      int64 // flush sequence number (existing one if not applied)
	Before   int   // partition size before the fold
	Incoming int   // records in the request
	After    int   // partition size after the fold
}

func (r FoldRequest) validate() error {
	if _, err := time.Parse(DayLayout, r.Day); err != nil {
		return fmt.Errorf("invalid day %q: %w", r.Day, err)
	}
	if r.Workspace == "" {
		return errors.New("workspace is required")
	}
	if r.Token == "" {
		return errors.New("token is required")
	}
	for i, e := range r.Events {
		if usage.IsNil(e) {
			return fmt.Errorf("event %d: %w", i, merge.ErrNilArgument)
		}
	}
	return nil
}

// Fold reconciles a period's events into the (day, workspace) partition.
//
// The partition is loaded, merged with req.Events through the store's registry
// and rewritten in a single transaction together with the flush record. The
// records in req.Events are never modified; they are stored NFC-normalized,
// like every payload string.
func (s *Store) Fold(ctx context.Context, req FoldRequest) (FoldResult, error) {
	result := FoldResult{Incoming: len(req.Events)}
	if err := req.validate(); err != nil {
		return result, fmt.Errorf("fold: %w", err)
	}
	normalized := make([]usage.Event, len(req.Events))
	for i, e := range req.Events {
		normalized[i] = usage.Normalize(e)
	}
	req.Events = normalized

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("fold: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var existingSeq int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM flushes WHERE token = ?`, req.Token).Scan(&existingSeq)
	switch {
	case err == nil:
		slog.Debug("fold skipped, token already applied", "token", req.Token, "seq", existingSeq)
		result.Seq = existingSeq
		return result, nil
	case !errors.Is(err, sql.ErrNoRows):
		return result, fmt.Errorf("fold: check token: %w", err)
	}

	existing, err := readPartition(ctx, tx, req.Day, req.Workspace)
	if err != nil {
		return result, fmt.Errorf("fold: %w", err)
	}
	result.Before = len(existing)

	reconciled, err := s.registry.Reconcile(existing, req.Events)
	if err != nil {
		return result, fmt.Errorf("fold: %w", err)
	}
	result.After = len(reconciled)

	if err := writePartition(ctx, tx, req.Day, req.Workspace, reconciled); err != nil {
		return result, fmt.Errorf("fold: %w", err)
	}

	seq, err := writeFlush(ctx, tx, req)
	if err != nil {
		return result, fmt.Errorf("fold: %w", err)
	}
	result.Seq = seq

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("fold: commit: %w", err)
	}
	result.Applied = true

	slog.Debug("folded period",
		"day", req.Day,
		"workspace", req.Workspace,
		"token", req.Token,
		"seq", seq,
		"before", result.Before,
		"incoming", result.Incoming,
		"after", result.After,
	)
	return result, nil
}

// writePartition replaces every event of (day, workspace) with events.
// Positions are assigned per kind in slice order.
func writePartition(ctx context.Context, tx *sql.Tx, day, workspace string, events []usage.Event) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM events WHERE day = ? AND workspace = ?
	`, day, workspace); err != nil {
		return fmt.Errorf("clear partition: %w", err)
	}

	positions := make(map[usage.Kind]int)
	for _, e := range events {
		payload, err := marshalEvent(e)
		if err != nil {
			return err
		}
		key, _, err := merge.IdentityKey(e)
		if err != nil {
			return err
		}

		kind := e.Kind()
		pos := positions[kind]
		positions[kind] = pos + 1

		_, err = tx.ExecContext(ctx, `
			INSERT INTO events
			(day, workspace, kind, position, identity, payload)
			VALUES (?, ?, ?, ?, ?, ?)
		`, day, workspace, string(kind), pos, key, payload)
		if err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}
	return nil
}

// writeFlush records the flush and its raw events, returning the assigned seq.
func writeFlush(ctx context.Context, tx *sql.Tx, req FoldRequest) (int64, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM flushes`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next flush seq: %w", err)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO flushes (token, day, workspace, seq, records)
		VALUES (?, ?, ?, ?, ?)
	`, req.Token, req.Day, req.Workspace, seq, len(req.Events))
	if err != nil {
		return 0, fmt.Errorf("write flush: %w", err)
	}

	for i, e := range req.Events {
		payload, err := marshalEvent(e)
		if err != nil {
			return 0, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO flush_events (token, position, kind, payload)
			VALUES (?, ?, ?, ?)
		`, req.Token, i, string(e.Kind()), payload)
		if err != nil {
			return 0, fmt.Errorf("write flush event: %w", err)
		}
	}
	return seq, nil
}
