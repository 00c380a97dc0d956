package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/usagelog/internal/testutil"
	"github.com/roach88/usagelog/internal/usage"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustFold folds events and fails the test on error.
func mustFold(t *testing.T, s *Store, day, workspace, token string, events ...usage.Event) FoldResult {
	t.Helper()
	res, err := s.Fold(context.Background(), FoldRequest{
		Day:       day,
		Workspace: workspace,
		Token:     token,
		Events:    events,
	})
	if err != nil {
		t.Fatalf("Fold(%s) failed: %v", token, err)
	}
	return res
}

// sampleEvents returns one fully populated event of every kind.
func sampleEvents() []usage.Event {
	return testutil.SampleEvents()
}
