package usage

import "fmt"

// Kind tags a record type.
type Kind string

const (
	KindCommand     Kind = "command"
	KindFile        Kind = "file"
	KindJava        Kind = "java"
	KindLaunch      Kind = "launch"
	KindPart        Kind = "part"
	KindPerspective Kind = "perspective"
	KindSession     Kind = "session"
	KindTaskFile    Kind = "taskfile"
)

// Event is implemented by every record type.
type Event interface {
	Kind() Kind
}

var allKinds = []Kind{
	KindCommand,
	KindFile,
	KindJava,
	KindLaunch,
	KindPart,
	KindPerspective,
	KindSession,
	KindTaskFile,
}

// Kinds returns every known kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range allKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

// KindInfo describes the fields of a record kind.
type KindInfo struct {
	Kind       Kind     `json:"kind"`
	Identity   []string `json:"identity"`
	Measures   []string `json:"measures"`
	Aggregates []string `json:"aggregates,omitempty"`
}

// Describe returns field metadata for every kind, in Kinds order.
func Describe() []KindInfo {
	return []KindInfo{
		{Kind: KindCommand, Identity: []string{"command_id"}, Measures: []string{"count"}},
		{Kind: KindFile, Identity: []string{"file_path"}, Measures: []string{"duration"}},
		{Kind: KindJava, Identity: []string{"handle_id"}, Measures: []string{"duration"}},
		{
			Kind:       KindLaunch,
			Identity:   []string{"launch_mode_id", "launch_type_id", "name"},
			Measures:   []string{"count", "total_duration"},
			Aggregates: []string{"file_paths"},
		},
		{Kind: KindPart, Identity: []string{"part_id"}, Measures: []string{"duration"}},
		{Kind: KindPerspective, Identity: []string{"perspective_id"}, Measures: []string{"duration"}},
		{Kind: KindSession, Identity: []string{}, Measures: []string{"duration"}},
		{
			Kind:     KindTaskFile,
			Identity: []string{"file_path", "task.creation_date", "task.handle_id"},
			Measures: []string{"duration"},
		},
	}
}
