package merge

import "github.com/roach88/usagelog/internal/usage"

// PerspectiveMerger merges perspective events by perspective ID.
type PerspectiveMerger struct {
	base[usage.PerspectiveEvent]
}

// NewPerspectiveMerger returns a merger for perspective events.
func NewPerspectiveMerger() *PerspectiveMerger {
	return &PerspectiveMerger{base[usage.PerspectiveEvent]{
		kind: usage.KindPerspective,
		same: func(a, b *usage.PerspectiveEvent) bool {
			return sameString(a.PerspectiveID, b.PerspectiveID)
		},
		combine: func(a, b *usage.PerspectiveEvent) *usage.PerspectiveEvent {
			return &usage.PerspectiveEvent{
				PerspectiveID: a.PerspectiveID,
				Duration:      a.Duration + b.Duration,
			}
		},
	}}
}
