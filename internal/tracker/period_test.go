package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/usagelog/internal/merge"
	"github.com/roach88/usagelog/internal/store"
	"github.com/roach88/usagelog/internal/testutil"
	"github.com/roach88/usagelog/internal/usage"
)

// recordingSink captures fold requests and optionally fails.
type recordingSink struct {
	mu       sync.Mutex
	requests []store.FoldRequest
	err      error
}

func (s *recordingSink) Fold(_ context.Context, req store.FoldRequest) (store.FoldResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return store.FoldResult{}, s.err
	}
	return store.FoldResult{Applied: true, Seq: int64(len(s.requests)), Incoming: len(req.Events)}, nil
}

func TestPeriod_AddReducesInPlace(t *testing.T) {
	p := NewPeriod()

	require.NoError(t, p.Add(&usage.CommandEvent{CommandID: "commandIdA", Count: 100}))
	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 9823}))
	require.NoError(t, p.Add(&usage.CommandEvent{CommandID: "commandIdA", Count: 3000}))
	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 120934}))
	require.NoError(t, p.Add(&usage.CommandEvent{CommandID: "commandIdB", Count: 1}))

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []usage.Event{
		&usage.CommandEvent{CommandID: "commandIdA", Count: 3100},
		&usage.CommandEvent{CommandID: "commandIdB", Count: 1},
		&usage.SessionEvent{Duration: 130757},
	}, p.Events())
}

func TestPeriod_AddDoesNotRetainInput(t *testing.T) {
	p := NewPeriod()
	e := &usage.FileEvent{FilePath: "/a", Duration: 1}

	require.NoError(t, p.Add(e))
	e.Duration = 999

	got := p.Events()
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].(*usage.FileEvent).Duration)

	got[0].(*usage.FileEvent).Duration = 42
	assert.Equal(t, int64(1), p.Events()[0].(*usage.FileEvent).Duration, "Events returns copies")
}

func TestPeriod_AddNil(t *testing.T) {
	p := NewPeriod()
	var typed *usage.PartEvent

	assert.ErrorIs(t, p.Add(nil), merge.ErrNilArgument)
	assert.ErrorIs(t, p.Add(typed), merge.ErrNilArgument)
	assert.Equal(t, 0, p.Len())
}

func TestPeriod_FlushSendsReducedSet(t *testing.T) {
	sink := &recordingSink{}
	p := NewPeriod(WithTokenGenerator(NewFixedGenerator("period-1", "period-2")))

	for _, e := range testutil.SampleEvents() {
		require.NoError(t, p.Add(e))
	}
	for _, e := range testutil.SampleEvents() {
		require.NoError(t, p.Add(e))
	}

	res, err := p.Flush(context.Background(), sink, "2024-03-01", "ws")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	require.Len(t, sink.requests, 1)
	req := sink.requests[0]
	assert.Equal(t, "period-1", req.Token)
	assert.Equal(t, "2024-03-01", req.Day)
	assert.Equal(t, "ws", req.Workspace)
	assert.Len(t, req.Events, 8)
	assert.Equal(t, int64(12000), req.Events[6].(*usage.SessionEvent).Duration)

	assert.Equal(t, 0, p.Len(), "flush starts a new period")
}

func TestPeriod_FlushEmptyIsNoop(t *testing.T) {
	sink := &recordingSink{}
	p := NewPeriod(WithTokenGenerator(NewFixedGenerator()))

	res, err := p.Flush(context.Background(), sink, "2024-03-01", "ws")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Empty(t, sink.requests)
}

func TestPeriod_FailedFlushKeepsPeriodAndToken(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	p := NewPeriod(WithTokenGenerator(NewFixedGenerator("period-1", "period-2")))
	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 10}))

	_, err := p.Flush(context.Background(), sink, "2024-03-01", "ws")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 1, p.Pending())

	sink.err = nil
	_, err = p.Flush(context.Background(), sink, "2024-03-01", "ws")
	require.NoError(t, err)

	require.Len(t, sink.requests, 2)
	assert.Equal(t, "period-1", sink.requests[0].Token)
	assert.Equal(t, "period-1", sink.requests[1].Token, "retry reuses the token")
	assert.Equal(t, 0, p.Pending())
}

func TestPeriod_AddAfterFailedFlushStartsNewPeriod(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	p := NewPeriod(WithTokenGenerator(NewFixedGenerator("period-1", "period-2")))
	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 10}))

	_, err := p.Flush(context.Background(), sink, "2024-03-01", "ws")
	require.Error(t, err)

	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 5}))
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 1, p.Pending())

	sink.err = nil
	_, err = p.Flush(context.Background(), sink, "2024-03-02", "ws")
	require.NoError(t, err)

	require.Len(t, sink.requests, 3)
	retry, next := sink.requests[1], sink.requests[2]
	assert.Equal(t, "period-1", retry.Token)
	assert.Equal(t, "2024-03-01", retry.Day, "retry is sent unchanged")
	assert.Equal(t, []usage.Event{&usage.SessionEvent{Duration: 10}}, retry.Events)
	assert.Equal(t, "period-2", next.Token)
	assert.Equal(t, "2024-03-02", next.Day)
	assert.Equal(t, []usage.Event{&usage.SessionEvent{Duration: 5}}, next.Events)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, 0, p.Pending())
}

// lostReplySink commits to the store but reports a failure once.
type lostReplySink struct {
	st   *store.Store
	fail bool
}

func (s *lostReplySink) Fold(ctx context.Context, req store.FoldRequest) (store.FoldResult, error) {
	res, err := s.st.Fold(ctx, req)
	if err != nil {
		return res, err
	}
	if s.fail {
		s.fail = false
		return store.FoldResult{}, errors.New("connection reset")
	}
	return res, nil
}

func TestPeriod_RetryOfCommittedFlushKeepsLaterEvents(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()
	sink := &lostReplySink{st: s, fail: true}

	p := NewPeriod(WithTokenGenerator(NewFixedGenerator("period-1", "period-2")))
	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 10}))
	_, err = p.Flush(ctx, sink, "2024-03-01", "ws")
	require.Error(t, err)

	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 5}))
	res, err := p.Flush(ctx, sink, "2024-03-01", "ws")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, int64(2), res.Seq)

	events, err := s.Events(ctx, "2024-03-01", "ws")
	require.NoError(t, err)
	assert.Equal(t, []usage.Event{&usage.SessionEvent{Duration: 15}}, events, "counted once, nothing dropped")
}

func TestPeriod_AddNormalizesStrings(t *testing.T) {
	p := NewPeriod()
	require.NoError(t, p.Add(&usage.FileEvent{FilePath: "/src/cafe\u0301.go", Duration: 1}))
	require.NoError(t, p.Add(&usage.FileEvent{FilePath: "/src/caf\u00e9.go", Duration: 2}))

	events := p.Events()
	require.Len(t, events, 1)
	assert.Equal(t, &usage.FileEvent{FilePath: "/src/caf\u00e9.go", Duration: 3}, events[0])
}

func TestPeriod_ClockDrivesStartAndDay(t *testing.T) {
	start := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	clock := testutil.NewStepClock(start, time.Minute)
	sink := &recordingSink{}
	p := NewPeriod(
		WithClock(clock.Now),
		WithTokenGenerator(NewFixedGenerator("period-1")),
	)
	assert.Equal(t, start, p.Started())

	require.NoError(t, p.Add(&usage.SessionEvent{Duration: 60000}))
	_, err := p.FlushToday(context.Background(), sink, "ws")
	require.NoError(t, err)

	require.Len(t, sink.requests, 1)
	assert.Equal(t, "2024-03-02", sink.requests[0].Day)
	assert.Equal(t, start.Add(2*time.Minute), p.Started())
}

func TestPeriod_FlushIntoStore(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	p := NewPeriod(WithTokenGenerator(NewFixedGenerator("period-1", "period-2")))
	require.NoError(t, p.Add(&usage.CommandEvent{CommandID: "commandIdA", Count: 100}))
	_, err = p.Flush(ctx, s, "2024-03-01", "ws")
	require.NoError(t, err)

	require.NoError(t, p.Add(&usage.CommandEvent{CommandID: "commandIdA", Count: 3000}))
	res, err := p.Flush(ctx, s, "2024-03-01", "ws")
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, int64(2), res.Seq)

	events, err := s.Events(ctx, "2024-03-01", "ws")
	require.NoError(t, err)
	assert.Equal(t, []usage.Event{&usage.CommandEvent{CommandID: "commandIdA", Count: 3100}}, events)
}

func TestPeriod_ConcurrentAdds(t *testing.T) {
	p := NewPeriod()
	const n = 50

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Add(&usage.PerspectiveEvent{PerspectiveID: "java", Duration: 2}))
		}()
	}
	wg.Wait()

	events := p.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(2*n), events[0].(*usage.PerspectiveEvent).Duration)
}
