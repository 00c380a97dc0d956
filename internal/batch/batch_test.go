package batch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/usagelog/internal/usage"
)

func TestLoad_Valid(t *testing.T) {
	batches, err := Load(filepath.Join("testdata", "valid.yaml"))
	require.NoError(t, err)
	require.Len(t, batches, 2)

	b := batches[0]
	assert.Equal(t, filepath.Join("testdata", "valid.yaml")+"#1", b.Source)
	assert.Equal(t, "main", b.Workspace)
	assert.Equal(t, "2024-03-01", b.Day)
	assert.Empty(t, b.Token)
	require.Len(t, b.Events, 4)

	assert.Equal(t, &usage.CommandEvent{CommandID: "org.eclipse.ui.file.save", Count: 4}, b.Events[0])

	launch := b.Events[1].(*usage.LaunchEvent)
	assert.Equal(t, []string{"/proj/src/Main.java", "/proj/src/Util.java"}, launch.FilePaths.Sorted())
	assert.Equal(t, int64(3000), launch.TotalDuration)

	tf := b.Events[2].(*usage.TaskFileEvent)
	require.NotNil(t, tf.Task)
	require.NotNil(t, tf.Task.CreationDate)
	assert.Equal(t, "local-42", tf.Task.HandleID)
	assert.True(t, tf.Task.CreationDate.Equal(time.Date(2024, 2, 29, 23, 59, 58, 123000000, time.UTC)))

	assert.Equal(t, &usage.SessionEvent{Duration: 6000}, b.Events[3])

	side := batches[1]
	assert.Equal(t, "explicit-token", side.Token)
	assert.Equal(t, []usage.Event{&usage.FileEvent{Duration: 5}}, side.Events, "absent identity is kept")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "does-not-exist.yaml"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeRead, ErrorCode(err))
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "unknown_field.yaml"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeParse, ErrorCode(err))
	assert.Contains(t, err.Error(), "cuont")
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown kind", "events:\n  - kind: keystroke\n"},
		{"negative duration", "events:\n  - kind: file\n    file_path: /a\n    duration: -1\n"},
		{"negative count", "events:\n  - kind: command\n    count: -3\n"},
		{"field of another kind", "events:\n  - kind: session\n    file_path: /a\n"},
		{"bad day", "day: March 1st\n"},
		{"bad creation date", "events:\n  - kind: taskfile\n    task:\n      creation_date: yesterday\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("inline", []byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, ErrCodeSchema, ErrorCode(err), "error: %v", err)
			assert.Contains(t, err.Error(), "inline#1")
		})
	}
}

func TestParse_ImpossibleDay(t *testing.T) {
	_, err := Parse("inline", []byte("day: \"2024-02-30\"\n"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeInvalid, ErrorCode(err))
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse("inline", []byte("events: [\n"))
	require.Error(t, err)
	assert.Equal(t, ErrCodeParse, ErrorCode(err))
}

func TestParse_Empty(t *testing.T) {
	batches, err := Parse("inline", nil)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestParse_TaskWithoutDate(t *testing.T) {
	batches, err := Parse("inline", []byte("events:\n  - kind: taskfile\n    file_path: /a\n    task:\n      handle_id: h\n"))
	require.NoError(t, err)
	require.Len(t, batches, 1)

	tf := batches[0].Events[0].(*usage.TaskFileEvent)
	assert.Equal(t, "h", tf.Task.HandleID)
	assert.Nil(t, tf.Task.CreationDate)
}

func TestResolveToken(t *testing.T) {
	explicit := &Batch{Token: "given"}
	tok, err := explicit.ResolveToken()
	require.NoError(t, err)
	assert.Equal(t, "given", tok)

	a := &Batch{Workspace: "ws", Day: "2024-03-01", Events: []usage.Event{&usage.SessionEvent{Duration: 1}}}
	b := &Batch{Workspace: "ws", Day: "2024-03-01", Events: []usage.Event{&usage.SessionEvent{Duration: 1}}}
	c := &Batch{Workspace: "ws", Day: "2024-03-02", Events: []usage.Event{&usage.SessionEvent{Duration: 1}}}

	ta, err := a.ResolveToken()
	require.NoError(t, err)
	tb, err := b.ResolveToken()
	require.NoError(t, err)
	tc, err := c.ResolveToken()
	require.NoError(t, err)

	assert.Equal(t, ta, tb, "same content, same token")
	assert.NotEqual(t, ta, tc)
	assert.Regexp(t, `^batch-[0-9a-f]{64}$`, ta)
}
