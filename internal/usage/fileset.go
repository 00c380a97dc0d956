package usage

import (
	"encoding/json"
	"sort"
)

// FileSet is a set of workspace file paths.
type FileSet map[string]struct{}

// NewFileSet builds a set from the given paths. Duplicates collapse.
func NewFileSet(paths ...string) FileSet {
	s := make(FileSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether path is in the set.
func (s FileSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// Len returns the number of paths.
func (s FileSet) Len() int {
	return len(s)
}

// Clone returns an independent copy. A nil set clones to an empty set.
func (s FileSet) Clone() FileSet {
	out := make(FileSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Union returns a new set holding the paths of s and other.
// Neither operand is modified.
func (s FileSet) Union(other FileSet) FileSet {
	out := make(FileSet, len(s)+len(other))
	for p := range s {
		out[p] = struct{}{}
	}
	for p := range other {
		out[p] = struct{}{}
	}
	return out
}

// Sorted returns the paths in ascending order.
func (s FileSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s FileSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of paths.
func (s *FileSet) UnmarshalJSON(data []byte) error {
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return err
	}
	*s = NewFileSet(paths...)
	return nil
}
