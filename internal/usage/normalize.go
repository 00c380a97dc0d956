package usage

import "golang.org/x/text/unicode/norm"

// Normalize returns a deep copy of e with every string in Unicode NFC, the
// form stored payloads use. Canonically equivalent identities then compare
// equal. e must not be a nil pointer.
func Normalize(e Event) Event {
	switch v := CloneEvent(e).(type) {
	case *CommandEvent:
		v.CommandID = nfc(v.CommandID)
		return v
	case *FileEvent:
		v.FilePath = nfc(v.FilePath)
		return v
	case *JavaEvent:
		v.HandleID = nfc(v.HandleID)
		return v
	case *LaunchEvent:
		v.LaunchModeID = nfc(v.LaunchModeID)
		v.LaunchTypeID = nfc(v.LaunchTypeID)
		v.Name = nfc(v.Name)
		if v.FilePaths != nil {
			paths := make(FileSet, len(v.FilePaths))
			for p := range v.FilePaths {
				paths[nfc(p)] = struct{}{}
			}
			v.FilePaths = paths
		}
		return v
	case *PartEvent:
		v.PartID = nfc(v.PartID)
		return v
	case *PerspectiveEvent:
		v.PerspectiveID = nfc(v.PerspectiveID)
		return v
	case *TaskFileEvent:
		v.FilePath = nfc(v.FilePath)
		if v.Task != nil {
			v.Task.HandleID = nfc(v.Task.HandleID)
		}
		return v
	default:
		return v
	}
}

func nfc(s string) string {
	return norm.NFC.String(s)
}
