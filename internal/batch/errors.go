package batch

import (
	"errors"
	"fmt"
)

// Error codes for batch loading.
const (
	ErrCodeRead    = "E201" // File could not be read
	ErrCodeParse   = "E202" // Malformed YAML or unknown field
	ErrCodeSchema  = "E203" // Document violates the batch schema
	ErrCodeInvalid = "E204" // Value could not be converted (bad date, unknown kind)
)

// LoadError reports why a batch document was rejected.
type LoadError struct {
	Code    string
	Source  string // file, or file#document
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

// ErrorCode returns the code of a *LoadError in err's chain, or "".
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}
