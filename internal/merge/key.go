package merge

import (
	"fmt"
	"time"

	"github.com/roach88/usagelog/internal/canon"
	"github.com/roach88/usagelog/internal/usage"
)

// IdentityKey hashes the identity fields of e.
//
// Two records that a merger considers mergeable always share a key, and so do
// records whose identity strings are only canonically equivalent (NFC vs NFD).
// The store and tracker normalize records with usage.Normalize before merging,
// so for stored records the key and IsMergeable agree. ok is false when an
// identity field is absent; such records get no key. Session records share one
// constant key.
func IdentityKey(e usage.Event) (key string, ok bool, err error) {
	fields, ok := identityFields(e)
	if !ok {
		return "", false, nil
	}
	fields["kind"] = string(e.Kind())
	key, err = canon.Hash(canon.DomainIdentity, fields)
	if err != nil {
		return "", false, fmt.Errorf("identity key: %w", err)
	}
	return key, true, nil
}

func identityFields(e usage.Event) (canon.Object, bool) {
	switch v := e.(type) {
	case *usage.CommandEvent:
		if v == nil || v.CommandID == "" {
			return nil, false
		}
		return canon.Object{"command_id": v.CommandID}, true
	case *usage.FileEvent:
		if v == nil || v.FilePath == "" {
			return nil, false
		}
		return canon.Object{"file_path": v.FilePath}, true
	case *usage.JavaEvent:
		if v == nil || v.HandleID == "" {
			return nil, false
		}
		return canon.Object{"handle_id": v.HandleID}, true
	case *usage.LaunchEvent:
		if v == nil || v.LaunchModeID == "" || v.LaunchTypeID == "" || v.Name == "" {
			return nil, false
		}
		return canon.Object{
			"launch_mode_id": v.LaunchModeID,
			"launch_type_id": v.LaunchTypeID,
			"name":           v.Name,
		}, true
	case *usage.PartEvent:
		if v == nil || v.PartID == "" {
			return nil, false
		}
		return canon.Object{"part_id": v.PartID}, true
	case *usage.PerspectiveEvent:
		if v == nil || v.PerspectiveID == "" {
			return nil, false
		}
		return canon.Object{"perspective_id": v.PerspectiveID}, true
	case *usage.SessionEvent:
		if v == nil {
			return nil, false
		}
		return canon.Object{}, true
	case *usage.TaskFileEvent:
		if v == nil || v.FilePath == "" || v.Task == nil || v.Task.HandleID == "" || v.Task.CreationDate == nil {
			return nil, false
		}
		return canon.Object{
			"file_path":    v.FilePath,
			"task_handle":  v.Task.HandleID,
			"task_created": v.Task.CreationDate.UTC().Format(time.RFC3339Nano),
		}, true
	default:
		return nil, false
	}
}
