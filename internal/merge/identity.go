package merge

import (
	"time"

	"github.com/roach88/usagelog/internal/usage"
)

// sameString compares identity strings. An empty string is an absent identity.
func sameString(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b
}

// sameTime compares identity instants by value. Nil is absent.
func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}

// sameTask compares task identifiers field by field.
func sameTask(a, b *usage.TaskID) bool {
	if a == nil || b == nil {
		return false
	}
	if !sameTime(a.CreationDate, b.CreationDate) {
		return false
	}
	return sameString(a.HandleID, b.HandleID)
}
