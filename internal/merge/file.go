package merge

import "github.com/roach88/usagelog/internal/usage"

// FileMerger merges file events by path, summing durations.
type FileMerger struct {
	base[usage.FileEvent]
}

// NewFileMerger returns a merger for file events.
func NewFileMerger() *FileMerger {
	return &FileMerger{base[usage.FileEvent]{
		kind: usage.KindFile,
		same: func(a, b *usage.FileEvent) bool {
			return sameString(a.FilePath, b.FilePath)
		},
		combine: func(a, b *usage.FileEvent) *usage.FileEvent {
			return &usage.FileEvent{
				FilePath: a.FilePath,
				Duration: a.Duration + b.Duration,
			}
		},
	}}
}
