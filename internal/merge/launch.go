package merge

import "github.com/roach88/usagelog/internal/usage"

// LaunchMerger merges launch events sharing mode ID, type ID and name.
// Count and total duration are summed; touched file paths are unioned.
type LaunchMerger struct {
	base[usage.LaunchEvent]
}

// NewLaunchMerger returns a merger for launch events.
func NewLaunchMerger() *LaunchMerger {
	return &LaunchMerger{base[usage.LaunchEvent]{
		kind: usage.KindLaunch,
		same: func(a, b *usage.LaunchEvent) bool {
			return sameString(a.LaunchModeID, b.LaunchModeID) &&
				sameString(a.LaunchTypeID, b.LaunchTypeID) &&
				sameString(a.Name, b.Name)
		},
		combine: func(a, b *usage.LaunchEvent) *usage.LaunchEvent {
			return &usage.LaunchEvent{
				LaunchModeID:  a.LaunchModeID,
				LaunchTypeID:  a.LaunchTypeID,
				Name:          a.Name,
				Count:         a.Count + b.Count,
				TotalDuration: a.TotalDuration + b.TotalDuration,
				FilePaths:     a.FilePaths.Union(b.FilePaths),
			}
		},
	}}
}
