package merge

import "github.com/roach88/usagelog/internal/usage"

// TaskFileMerger merges task file events sharing file path and task identity
// (handle ID and creation date).
//
// The merged record gets its own TaskID whose creation date is a fresh copy;
// it never points at either operand's TaskID or date.
type TaskFileMerger struct {
	base[usage.TaskFileEvent]
}

// NewTaskFileMerger returns a merger for task file events.
func NewTaskFileMerger() *TaskFileMerger {
	return &TaskFileMerger{base[usage.TaskFileEvent]{
		kind: usage.KindTaskFile,
		same: func(a, b *usage.TaskFileEvent) bool {
			return sameString(a.FilePath, b.FilePath) && sameTask(a.Task, b.Task)
		},
		combine: func(a, b *usage.TaskFileEvent) *usage.TaskFileEvent {
			return &usage.TaskFileEvent{
				FilePath: a.FilePath,
				Task:     a.Task.Clone(),
				Duration: a.Duration + b.Duration,
			}
		},
	}}
}
