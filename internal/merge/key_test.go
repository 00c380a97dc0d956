package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/usagelog/internal/usage"
)

func TestIdentityKey_MergeableRecordsShareKey(t *testing.T) {
	d := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	local := d.In(time.FixedZone("X", 3600))

	pairs := []struct {
		name string
		a, b usage.Event
	}{
		{"command", &usage.CommandEvent{CommandID: "c", Count: 1}, &usage.CommandEvent{CommandID: "c", Count: 9}},
		{"file", &usage.FileEvent{FilePath: "/f", Duration: 1}, &usage.FileEvent{FilePath: "/f"}},
		{"java", &usage.JavaEvent{HandleID: "h"}, &usage.JavaEvent{HandleID: "h", Duration: 3}},
		{"launch",
			&usage.LaunchEvent{LaunchModeID: "m", LaunchTypeID: "t", Name: "n", FilePaths: usage.NewFileSet("a")},
			&usage.LaunchEvent{LaunchModeID: "m", LaunchTypeID: "t", Name: "n", Count: 4}},
		{"part", &usage.PartEvent{PartID: "p"}, &usage.PartEvent{PartID: "p", Duration: 2}},
		{"perspective", &usage.PerspectiveEvent{PerspectiveID: "p"}, &usage.PerspectiveEvent{PerspectiveID: "p", Duration: 2}},
		{"session", &usage.SessionEvent{Duration: 1}, &usage.SessionEvent{Duration: 2}},
		{"taskfile",
			&usage.TaskFileEvent{FilePath: "/f", Task: &usage.TaskID{HandleID: "h", CreationDate: &d}},
			&usage.TaskFileEvent{FilePath: "/f", Task: &usage.TaskID{HandleID: "h", CreationDate: &local}, Duration: 8}},
	}
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			ka, ok, err := IdentityKey(p.a)
			require.NoError(t, err)
			require.True(t, ok)
			kb, ok, err := IdentityKey(p.b)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, ka, kb)
		})
	}
}

func TestIdentityKey_KindIsPartOfKey(t *testing.T) {
	a, _, err := IdentityKey(&usage.PartEvent{PartID: "x"})
	require.NoError(t, err)
	b, _, err := IdentityKey(&usage.PerspectiveEvent{PerspectiveID: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIdentityKey_Absent(t *testing.T) {
	events := []usage.Event{
		&usage.CommandEvent{},
		&usage.FileEvent{},
		&usage.JavaEvent{},
		&usage.LaunchEvent{LaunchModeID: "m", LaunchTypeID: "t"},
		&usage.PartEvent{},
		&usage.PerspectiveEvent{},
		&usage.TaskFileEvent{FilePath: "/f"},
		&usage.TaskFileEvent{FilePath: "/f", Task: &usage.TaskID{HandleID: "h"}},
		(*usage.SessionEvent)(nil),
	}
	for _, e := range events {
		key, ok, err := IdentityKey(e)
		require.NoError(t, err)
		assert.False(t, ok, "%T", e)
		assert.Empty(t, key)
	}
}

func TestIdentityKey_AgreesWithMergerAfterNormalize(t *testing.T) {
	decomposed := &usage.FileEvent{FilePath: "/src/cafe\u0301.go", Duration: 1}
	composed := &usage.FileEvent{FilePath: "/src/caf\u00e9.go", Duration: 2}

	ka, ok, err := IdentityKey(decomposed)
	require.NoError(t, err)
	require.True(t, ok)
	kb, _, err := IdentityKey(composed)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)

	m := NewFileMerger()
	ok, err = m.IsMergeable(decomposed, composed)
	require.NoError(t, err)
	assert.False(t, ok, "raw strings differ")

	ok, err = m.IsMergeable(
		usage.Normalize(decomposed).(*usage.FileEvent),
		usage.Normalize(composed).(*usage.FileEvent),
	)
	require.NoError(t, err)
	assert.True(t, ok)
}
