package merge

import (
	"fmt"

	"github.com/roach88/usagelog/internal/usage"
)

// Registry maps record kinds to their mergers.
//
// Kinds without an entry (or registered with a nil merger) are reconciled by
// plain appending. Records of different kinds are never merged together.
type Registry struct {
	entries map[usage.Kind]reconciler
}

// reconciler applies one typed merger to a kind's slice of events.
type reconciler interface {
	mergeAll(main, sub []usage.Event) ([]usage.Event, error)
}

type typedReconciler[E any] struct {
	kind   usage.Kind
	merger Merger[E]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[usage.Kind]reconciler)}
}

// DefaultRegistry returns a registry with a merger for every known kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	Register[usage.CommandEvent](r, usage.KindCommand, NewCommandMerger())
	Register[usage.FileEvent](r, usage.KindFile, NewFileMerger())
	Register[usage.JavaEvent](r, usage.KindJava, NewJavaMerger())
	Register[usage.LaunchEvent](r, usage.KindLaunch, NewLaunchMerger())
	Register[usage.PartEvent](r, usage.KindPart, NewPartMerger())
	Register[usage.PerspectiveEvent](r, usage.KindPerspective, NewPerspectiveMerger())
	Register[usage.SessionEvent](r, usage.KindSession, NewSessionMerger())
	Register[usage.TaskFileEvent](r, usage.KindTaskFile, NewTaskFileMerger())
	return r
}

// Register binds kind to m, replacing any previous binding. m may be nil.
// *E must implement usage.Event for events of that kind to be reconciled.
func Register[E any](r *Registry, kind usage.Kind, m Merger[E]) {
	r.entries[kind] = typedReconciler[E]{kind: kind, merger: m}
}

// has reports whether kind has a binding.
func (r *Registry) has(kind usage.Kind) bool {
	_, ok := r.entries[kind]
	return ok
}

// Reconcile folds batch into main and returns the reduced events.
//
// Events are grouped by kind; groups appear in the order their kind first
// shows up in main, then in batch. Within a group, main's order is kept and
// unmatched batch events are appended, exactly as MergeAll does. Neither input
// slice nor any input record is modified.
func (r *Registry) Reconcile(main, batch []usage.Event) ([]usage.Event, error) {
	var order []usage.Kind
	mainByKind := make(map[usage.Kind][]usage.Event)
	subByKind := make(map[usage.Kind][]usage.Event)

	group := func(events []usage.Event, into map[usage.Kind][]usage.Event, what string) error {
		for _, e := range events {
			if e == nil {
				return nilArgument("Reconcile", "", what)
			}
			k := e.Kind()
			if _, seen := mainByKind[k]; !seen {
				if _, seen := subByKind[k]; !seen {
					order = append(order, k)
				}
			}
			into[k] = append(into[k], e)
		}
		return nil
	}
	if err := group(main, mainByKind, "main event"); err != nil {
		return nil, err
	}
	if err := group(batch, subByKind, "batch event"); err != nil {
		return nil, err
	}

	out := make([]usage.Event, 0, len(main)+len(batch))
	for _, k := range order {
		rec, ok := r.entries[k]
		if !ok {
			out = append(out, mainByKind[k]...)
			out = append(out, subByKind[k]...)
			continue
		}
		merged, err := rec.mergeAll(mainByKind[k], subByKind[k])
		if err != nil {
			return nil, fmt.Errorf("reconcile %s: %w", k, err)
		}
		out = append(out, merged...)
	}
	return out, nil
}

// MergeInto folds a single event into events. See Reconcile for ordering.
func (r *Registry) MergeInto(events []usage.Event, e usage.Event) ([]usage.Event, error) {
	if e == nil {
		return nil, nilArgument("MergeInto", "", "element")
	}
	return r.Reconcile(events, []usage.Event{e})
}

func (t typedReconciler[E]) mergeAll(main, sub []usage.Event) ([]usage.Event, error) {
	mainTyped, err := t.narrow(main)
	if err != nil {
		return nil, err
	}
	subTyped, err := t.narrow(sub)
	if err != nil {
		return nil, err
	}

	if _, err := MergeAll(t.merger, &mainTyped, subTyped); err != nil {
		return nil, err
	}

	out := make([]usage.Event, len(mainTyped))
	for i, p := range mainTyped {
		e, ok := any(p).(usage.Event)
		if !ok {
			return nil, fmt.Errorf("%T does not implement usage.Event", p)
		}
		out[i] = e
	}
	return out, nil
}

// narrow converts events of t.kind to their concrete pointer type.
// The returned slice is freshly allocated so the caller's slice is untouched.
func (t typedReconciler[E]) narrow(events []usage.Event) ([]*E, error) {
	out := make([]*E, len(events))
	for i, e := range events {
		p, ok := any(e).(*E)
		if !ok {
			return nil, fmt.Errorf("event of kind %s has type %T, want %T", t.kind, e, p)
		}
		if p == nil {
			return nil, nilArgument("Reconcile", t.kind, "event")
		}
		out[i] = p
	}
	return out, nil
}
