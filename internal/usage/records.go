package usage

import "time"

// CommandEvent counts executions of a workbench command.
type CommandEvent struct {
	CommandID string `json:"command_id" yaml:"command_id"`
	Count     int64  `json:"count" yaml:"count"`
}

// FileEvent records time spent with a file open in an editor.
type FileEvent struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Duration int64  `json:"duration" yaml:"duration"` // milliseconds
}

// JavaEvent records time spent in a Java element (type, method, field).
type JavaEvent struct {
	HandleID string `json:"handle_id" yaml:"handle_id"`
	Duration int64  `json:"duration" yaml:"duration"`
}

// LaunchEvent aggregates launches sharing mode, type and configuration name.
type LaunchEvent struct {
	LaunchModeID  string  `json:"launch_mode_id" yaml:"launch_mode_id"`
	LaunchTypeID  string  `json:"launch_type_id" yaml:"launch_type_id"`
	Name          string  `json:"name" yaml:"name"`
	Count         int64   `json:"count" yaml:"count"`
	TotalDuration int64   `json:"total_duration" yaml:"total_duration"`
	FilePaths     FileSet `json:"file_paths" yaml:"file_paths"` // files touched by the launch
}

// PartEvent records time a workbench part (view or editor) was active.
type PartEvent struct {
	PartID   string `json:"part_id" yaml:"part_id"`
	Duration int64  `json:"duration" yaml:"duration"`
}

// PerspectiveEvent records time a perspective was active.
type PerspectiveEvent struct {
	PerspectiveID string `json:"perspective_id" yaml:"perspective_id"`
	Duration      int64  `json:"duration" yaml:"duration"`
}

// SessionEvent records total active time. Sessions carry no identity.
type SessionEvent struct {
	Duration int64 `json:"duration" yaml:"duration"`
}

// TaskID identifies a task in the task list.
// CreationDate is a pointer so an unknown date can be told apart from the zero time.
type TaskID struct {
	HandleID     string     `json:"handle_id" yaml:"handle_id"`
	CreationDate *time.Time `json:"creation_date" yaml:"creation_date"`
}

// TaskFileEvent records time spent in a file while a task was active.
type TaskFileEvent struct {
	FilePath string  `json:"file_path" yaml:"file_path"`
	Task     *TaskID `json:"task" yaml:"task"`
	Duration int64   `json:"duration" yaml:"duration"`
}

func (*CommandEvent) Kind() Kind     { return KindCommand }
func (*FileEvent) Kind() Kind        { return KindFile }
func (*JavaEvent) Kind() Kind        { return KindJava }
func (*LaunchEvent) Kind() Kind      { return KindLaunch }
func (*PartEvent) Kind() Kind        { return KindPart }
func (*PerspectiveEvent) Kind() Kind { return KindPerspective }
func (*SessionEvent) Kind() Kind     { return KindSession }
func (*TaskFileEvent) Kind() Kind    { return KindTaskFile }

// Clone returns a new TaskID with its own copy of the creation date.
// A nil receiver clones to nil.
func (t *TaskID) Clone() *TaskID {
	if t == nil {
		return nil
	}
	out := &TaskID{HandleID: t.HandleID}
	if t.CreationDate != nil {
		d := *t.CreationDate
		out.CreationDate = &d
	}
	return out
}

func (e *CommandEvent) Clone() *CommandEvent {
	c := *e
	return &c
}

func (e *FileEvent) Clone() *FileEvent {
	c := *e
	return &c
}

func (e *JavaEvent) Clone() *JavaEvent {
	c := *e
	return &c
}

// Clone deep-copies the event including its file path set.
func (e *LaunchEvent) Clone() *LaunchEvent {
	c := *e
	if e.FilePaths != nil {
		c.FilePaths = e.FilePaths.Clone()
	}
	return &c
}

func (e *PartEvent) Clone() *PartEvent {
	c := *e
	return &c
}

func (e *PerspectiveEvent) Clone() *PerspectiveEvent {
	c := *e
	return &c
}

func (e *SessionEvent) Clone() *SessionEvent {
	c := *e
	return &c
}

// Clone deep-copies the event including its task identifier.
func (e *TaskFileEvent) Clone() *TaskFileEvent {
	c := *e
	c.Task = e.Task.Clone()
	return &c
}

// CloneEvent deep-copies any known record. Unknown types are returned as is.
// e must not be a nil pointer.
func CloneEvent(e Event) Event {
	switch v := e.(type) {
	case *CommandEvent:
		return v.Clone()
	case *FileEvent:
		return v.Clone()
	case *JavaEvent:
		return v.Clone()
	case *LaunchEvent:
		return v.Clone()
	case *PartEvent:
		return v.Clone()
	case *PerspectiveEvent:
		return v.Clone()
	case *SessionEvent:
		return v.Clone()
	case *TaskFileEvent:
		return v.Clone()
	default:
		return e
	}
}

// IsNil reports whether e is nil or a nil pointer to a known record type.
func IsNil(e Event) bool {
	switch v := e.(type) {
	case nil:
		return true
	case *CommandEvent:
		return v == nil
	case *FileEvent:
		return v == nil
	case *JavaEvent:
		return v == nil
	case *LaunchEvent:
		return v == nil
	case *PartEvent:
		return v == nil
	case *PerspectiveEvent:
		return v == nil
	case *SessionEvent:
		return v == nil
	case *TaskFileEvent:
		return v == nil
	default:
		return false
	}
}
