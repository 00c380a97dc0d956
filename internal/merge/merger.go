package merge

import "github.com/roach88/usagelog/internal/usage"

// Merger decides whether two records of one kind are the same event and combines them.
type Merger[E any] interface {
	// IsMergeable reports whether a and b share an identity.
	// Fails with ErrNilArgument if either is nil.
	IsMergeable(a, b *E) (bool, error)

	// Merge returns a new record combining a and b.
	// Fails with ErrNilArgument if either is nil and with ErrNotMergeable
	// if IsMergeable(a, b) is false.
	Merge(a, b *E) (*E, error)
}

// base carries the argument checks shared by every merger. Concrete mergers
// embed it and supply the identity and combination rules.
//
// same must return false when an identity field is absent on either side.
// combine must build a fresh record and never write to its operands.
type base[E any] struct {
	kind    usage.Kind
	same    func(a, b *E) bool
	combine func(a, b *E) *E
}

// Kind returns the record kind this merger handles.
func (m *base[E]) Kind() usage.Kind {
	return m.kind
}

// IsMergeable implements Merger.
func (m *base[E]) IsMergeable(a, b *E) (bool, error) {
	if err := m.check("IsMergeable", a, b); err != nil {
		return false, err
	}
	return m.same(a, b), nil
}

// Merge implements Merger.
func (m *base[E]) Merge(a, b *E) (*E, error) {
	if err := m.check("Merge", a, b); err != nil {
		return nil, err
	}
	if !m.same(a, b) {
		return nil, notMergeable(m.kind)
	}
	return m.combine(a, b), nil
}

func (m *base[E]) check(op string, a, b *E) error {
	if a == nil {
		return nilArgument(op, m.kind, "first record")
	}
	if b == nil {
		return nilArgument(op, m.kind, "second record")
	}
	return nil
}
