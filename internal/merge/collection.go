package merge

// MergeInto folds element into target.
//
// With a nil merger, element is appended unchanged. Otherwise target is scanned
// in order for the first entry mergeable with element; that entry is replaced in
// place by the merged record. If none matches, element is appended.
//
// target is updated in place and the same pointer is returned. element is never
// modified. A nil target or element fails with ErrNilArgument; so does a nil
// entry already in target when a merger is supplied.
func MergeInto[E any](m Merger[E], target *[]*E, element *E) (*[]*E, error) {
	if target == nil {
		return nil, nilArgument("MergeInto", "", "target collection")
	}
	if element == nil {
		return nil, nilArgument("MergeInto", "", "element")
	}
	if m == nil {
		*target = append(*target, element)
		return target, nil
	}

	items := *target
	for i, existing := range items {
		ok, err := m.IsMergeable(existing, element)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		merged, err := m.Merge(existing, element)
		if err != nil {
			return nil, err
		}
		items[i] = merged
		return target, nil
	}

	*target = append(items, element)
	return target, nil
}

// MergeAll folds every element of sub into main, in order, using MergeInto.
//
// With a nil merger all of sub is appended. sub is never modified. A nil main
// fails with ErrNilArgument; a nil sub is an empty collection.
//
// Inputs are validated before main is touched, so a nil record in either
// collection leaves main as it was.
func MergeAll[E any](m Merger[E], main *[]*E, sub []*E) (*[]*E, error) {
	if main == nil {
		return nil, nilArgument("MergeAll", "", "main collection")
	}
	for _, e := range sub {
		if e == nil {
			return nil, nilArgument("MergeAll", "", "sub element")
		}
	}
	if m == nil {
		*main = append(*main, sub...)
		return main, nil
	}
	for _, e := range *main {
		if e == nil {
			return nil, nilArgument("MergeAll", "", "main element")
		}
	}

	for _, e := range sub {
		if _, err := MergeInto(m, main, e); err != nil {
			return nil, err
		}
	}
	return main, nil
}
