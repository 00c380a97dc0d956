// Package batch loads usage batches from YAML files.
//
// A batch file holds one or more YAML documents, each describing the events
// recorded for one workspace and day:
//
//	workspace: main
//	day: "2024-03-01"
//	events:
//	  - kind: command
//	    command_id: org.eclipse.ui.file.save
//	    count: 4
//	  - kind: session
//	    duration: 6000
//
// Documents are decoded strictly (unknown fields are rejected) and validated
// against an embedded CUE schema before being converted to usage records.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/usagelog/internal/canon"
	"github.com/roach88/usagelog/internal/store"
	"github.com/roach88/usagelog/internal/usage"
)

// Batch is one decoded document.
type Batch struct {
	Source    string // file name and document index, for messages
	Workspace string // may be empty; callers supply a default
	Day       string // may be empty; callers supply a default
	Token     string // optional explicit flush token
	Events    []usage.Event
}

// document mirrors the YAML layout. json tags drive CUE encoding.
type document struct {
	Workspace string     `yaml:"workspace" json:"workspace,omitempty"`
	Day       string     `yaml:"day" json:"day,omitempty"`
	Token     string     `yaml:"token" json:"token,omitempty"`
	Events    []rawEvent `yaml:"events" json:"events,omitempty"`
}

type rawEvent struct {
	Kind          string   `yaml:"kind" json:"kind"`
	CommandID     string   `yaml:"command_id" json:"command_id,omitempty"`
	FilePath      string   `yaml:"file_path" json:"file_path,omitempty"`
	HandleID      string   `yaml:"handle_id" json:"handle_id,omitempty"`
	LaunchModeID  string   `yaml:"launch_mode_id" json:"launch_mode_id,omitempty"`
	LaunchTypeID  string   `yaml:"launch_type_id" json:"launch_type_id,omitempty"`
	Name          string   `yaml:"name" json:"name,omitempty"`
	PartID        string   `yaml:"part_id" json:"part_id,omitempty"`
	PerspectiveID string   `yaml:"perspective_id" json:"perspective_id,omitempty"`
	Count         int64    `yaml:"count" json:"count,omitempty"`
	Duration      int64    `yaml:"duration" json:"duration,omitempty"`
	TotalDuration int64    `yaml:"total_duration" json:"total_duration,omitempty"`
	FilePaths     []string `yaml:"file_paths" json:"file_paths,omitempty"`
	Task          *rawTask `yaml:"task" json:"task,omitempty"`
}

type rawTask struct {
	HandleID     string `yaml:"handle_id" json:"handle_id,omitempty"`
	CreationDate string `yaml:"creation_date" json:"creation_date,omitempty"`
}

// Load reads every document of a batch file.
func Load(path string) ([]*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Source: path, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse decodes every document in data. name labels errors and batches.
// An input with no documents yields an empty slice.
func Parse(name string, data []byte) ([]*Batch, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	batches := []*Batch{}
	for i := 1; ; i++ {
		source := fmt.Sprintf("%s#%d", name, i)

		var doc document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Source: source, Message: err.Error()}
		}
		if err := schema.validate(doc); err != nil {
			return nil, &LoadError{Code: ErrCodeSchema, Source: source, Message: err.Error()}
		}

		b, err := doc.convert(source)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Source: source, Message: err.Error()}
		}
		batches = append(batches, b)
	}
	return batches, nil
}

func (d document) convert(source string) (*Batch, error) {
	if d.Day != "" {
		if _, err := time.Parse(store.DayLayout, d.Day); err != nil {
			return nil, fmt.Errorf("day %q: %w", d.Day, err)
		}
	}
	b := &Batch{
		Source:    source,
		Workspace: d.Workspace,
		Day:       d.Day,
		Token:     d.Token,
		Events:    make([]usage.Event, 0, len(d.Events)),
	}
	for i, raw := range d.Events {
		e, err := raw.event()
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		b.Events = append(b.Events, e)
	}
	return b, nil
}

func (r rawEvent) event() (usage.Event, error) {
	kind, err := usage.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case usage.KindCommand:
		return &usage.CommandEvent{CommandID: r.CommandID, Count: r.Count}, nil
	case usage.KindFile:
		return &usage.FileEvent{FilePath: r.FilePath, Duration: r.Duration}, nil
	case usage.KindJava:
		return &usage.JavaEvent{HandleID: r.HandleID, Duration: r.Duration}, nil
	case usage.KindLaunch:
		return &usage.LaunchEvent{
			LaunchModeID:  r.LaunchModeID,
			LaunchTypeID:  r.LaunchTypeID,
			Name:          r.Name,
			Count:         r.Count,
			TotalDuration: r.TotalDuration,
			FilePaths:     usage.NewFileSet(r.FilePaths...),
		}, nil
	case usage.KindPart:
		return &usage.PartEvent{PartID: r.PartID, Duration: r.Duration}, nil
	case usage.KindPerspective:
		return &usage.PerspectiveEvent{PerspectiveID: r.PerspectiveID, Duration: r.Duration}, nil
	case usage.KindSession:
		return &usage.SessionEvent{Duration: r.Duration}, nil
	case usage.KindTaskFile:
		e := &usage.TaskFileEvent{FilePath: r.FilePath, Duration: r.Duration}
		if r.Task != nil {
			task, err := r.Task.taskID()
			if err != nil {
				return nil, err
			}
			e.Task = task
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}
}

func (t rawTask) taskID() (*usage.TaskID, error) {
	id := &usage.TaskID{HandleID: t.HandleID}
	if t.CreationDate == "" {
		return id, nil
	}
	created, err := time.Parse(time.RFC3339Nano, t.CreationDate)
	if err != nil {
		return nil, fmt.Errorf("task creation_date: %w", err)
	}
	id.CreationDate = &created
	return id, nil
}

// ResolveToken returns b.Token, or a token derived from the batch content when
// none was given. Folding the same content twice then applies it only once.
func (b *Batch) ResolveToken() (string, error) {
	if b.Token != "" {
		return b.Token, nil
	}
	payloads := make([]any, len(b.Events))
	for i, e := range b.Events {
		p, err := store.Payload(e)
		if err != nil {
			return "", fmt.Errorf("resolve token: %w", err)
		}
		payloads[i] = string(e.Kind()) + ":" + p
	}
	hash, err := canon.Hash(canon.DomainPayload, canon.Object{
		"workspace": b.Workspace,
		"day":       b.Day,
		"events":    payloads,
	})
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	return "batch-" + hash, nil
}
