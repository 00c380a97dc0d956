package merge

import "github.com/roach88/usagelog/internal/usage"

// PartMerger merges workbench part events by part ID.
type PartMerger struct {
	base[usage.PartEvent]
}

// NewPartMerger returns a merger for part events.
func NewPartMerger() *PartMerger {
	return &PartMerger{base[usage.PartEvent]{
		kind: usage.KindPart,
		same: func(a, b *usage.PartEvent) bool {
			return sameString(a.PartID, b.PartID)
		},
		combine: func(a, b *usage.PartEvent) *usage.PartEvent {
			return &usage.PartEvent{
				PartID:   a.PartID,
				Duration: a.Duration + b.Duration,
			}
		},
	}}
}
