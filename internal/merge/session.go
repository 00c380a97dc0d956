package merge

import "github.com/roach88/usagelog/internal/usage"

// SessionMerger merges session events. Sessions have no identity, so any two merge.
type SessionMerger struct {
	base[usage.SessionEvent]
}

// NewSessionMerger returns a merger for session events.
func NewSessionMerger() *SessionMerger {
	return &SessionMerger{base[usage.SessionEvent]{
		kind: usage.KindSession,
		same: func(_, _ *usage.SessionEvent) bool {
			return true
		},
		combine: func(a, b *usage.SessionEvent) *usage.SessionEvent {
			return &usage.SessionEvent{Duration: a.Duration + b.Duration}
		},
	}}
}
