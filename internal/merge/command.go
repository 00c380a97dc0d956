package merge

import "github.com/roach88/usagelog/internal/usage"

// CommandMerger merges command events by command ID, summing counts.
type CommandMerger struct {
	base[usage.CommandEvent]
}

// NewCommandMerger returns a merger for command events.
func NewCommandMerger() *CommandMerger {
	return &CommandMerger{base[usage.CommandEvent]{
		kind: usage.KindCommand,
		same: func(a, b *usage.CommandEvent) bool {
			return sameString(a.CommandID, b.CommandID)
		},
		combine: func(a, b *usage.CommandEvent) *usage.CommandEvent {
			return &usage.CommandEvent{
				CommandID: a.CommandID,
				Count:     a.Count + b.Count,
			}
		},
	}}
}
