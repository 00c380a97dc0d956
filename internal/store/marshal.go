package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/usagelog/internal/canon"
	"github.com/roach88/usagelog/internal/usage"
)

// marshalEvent converts an event to canonical JSON TEXT for storage.
// Absent identity fields are stored as empty strings or omitted, never as null.
func marshalEvent(e usage.Event) (string, error) {
	obj, err := eventObject(e)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	data, err := canon.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(data), nil
}

func eventObject(e usage.Event) (canon.Object, error) {
	switch v := e.(type) {
	case *usage.CommandEvent:
		return canon.Object{"command_id": v.CommandID, "count": v.Count}, nil
	case *usage.FileEvent:
		return canon.Object{"file_path": v.FilePath, "duration": v.Duration}, nil
	case *usage.JavaEvent:
		return canon.Object{"handle_id": v.HandleID, "duration": v.Duration}, nil
	case *usage.LaunchEvent:
		return canon.Object{
			"launch_mode_id": v.LaunchModeID,
			"launch_type_id": v.LaunchTypeID,
			"name":           v.Name,
			"count":          v.Count,
			"total_duration": v.TotalDuration,
			"file_paths":     v.FilePaths.Sorted(),
		}, nil
	case *usage.PartEvent:
		return canon.Object{"part_id": v.PartID, "duration": v.Duration}, nil
	case *usage.PerspectiveEvent:
		return canon.Object{"perspective_id": v.PerspectiveID, "duration": v.Duration}, nil
	case *usage.SessionEvent:
		return canon.Object{"duration": v.Duration}, nil
	case *usage.TaskFileEvent:
		obj := canon.Object{"file_path": v.FilePath, "duration": v.Duration}
		if v.Task != nil {
			task := canon.Object{"handle_id": v.Task.HandleID}
			if v.Task.CreationDate != nil {
				task["creation_date"] = v.Task.CreationDate.UTC().Format(time.RFC3339Nano)
			}
			obj["task"] = task
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported event type %T", e)
	}
}

// unmarshalEvent parses a stored payload back into a record of the given kind.
func unmarshalEvent(kind string, payload string) (usage.Event, error) {
	k, err := usage.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	var e usage.Event
	switch k {
	case usage.KindCommand:
		e = &usage.CommandEvent{}
	case usage.KindFile:
		e = &usage.FileEvent{}
	case usage.KindJava:
		e = &usage.JavaEvent{}
	case usage.KindLaunch:
		e = &usage.LaunchEvent{}
	case usage.KindPart:
		e = &usage.PartEvent{}
	case usage.KindPerspective:
		e = &usage.PerspectiveEvent{}
	case usage.KindSession:
		e = &usage.SessionEvent{}
	case usage.KindTaskFile:
		e = &usage.TaskFileEvent{}
	}

	if err := json.Unmarshal([]byte(payload), e); err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", k, err)
	}
	if l, ok := e.(*usage.LaunchEvent); ok && l.FilePaths == nil {
		l.FilePaths = usage.NewFileSet()
	}
	return e, nil
}

// Payload returns the canonical JSON text stored for e.
func Payload(e usage.Event) (string, error) {
	return marshalEvent(e)
}
