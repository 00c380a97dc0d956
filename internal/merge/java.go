package merge

import "github.com/roach88/usagelog/internal/usage"

// JavaMerger merges Java element events by handle identifier.
// Duration is a measure, not identity: equal handles always merge.
type JavaMerger struct {
	base[usage.JavaEvent]
}

// NewJavaMerger returns a merger for Java element events.
func NewJavaMerger() *JavaMerger {
	return &JavaMerger{base[usage.JavaEvent]{
		kind: usage.KindJava,
		same: func(a, b *usage.JavaEvent) bool {
			return sameString(a.HandleID, b.HandleID)
		},
		combine: func(a, b *usage.JavaEvent) *usage.JavaEvent {
			return &usage.JavaEvent{
				HandleID: a.HandleID,
				Duration: a.Duration + b.Duration,
			}
		},
	}}
}
