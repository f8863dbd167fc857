// Package diff computes the start/stop delta between the previously
// active subscriptions and a freshly flattened subscription tree.
//
// The package is pure: it knows nothing about managers or I/O, and it
// never blocks. The dispatch loop owns the Active set it produces and
// is the only caller of Compute.
package diff

import (
	"github.com/on-the-ground/subscript_ive_go/subs"
)

// Record is what the active set retains per (kind, key): the handle
// assigned when the subscription started, the request that opened it,
// and the mapper currently bound to it. Rebinding the mapper never
// touches the handle.
type Record[Msg any] struct {
	Handle  string
	Request subs.Request
	Mapper  func(subs.Event) Msg
}

// kindSet holds one kind's records in key insertion order so that stop
// sequences stay deterministic across runs.
type kindSet[Msg any] struct {
	order   []string
	records map[string]Record[Msg]
}

func newKindSet[Msg any]() *kindSet[Msg] {
	return &kindSet[Msg]{records: make(map[string]Record[Msg])}
}

func (ks *kindSet[Msg]) insert(key string, rec Record[Msg]) {
	if _, ok := ks.records[key]; !ok {
		ks.order = append(ks.order, key)
	}
	ks.records[key] = rec
}

// Active is the set of live subscriptions keyed by (kind, key).
// It is confined to the dispatch loop and never shared across
// goroutines, so it needs no locking.
type Active[Msg any] struct {
	kinds  []subs.Kind
	byKind map[subs.Kind]*kindSet[Msg]
}

// NewActive returns an empty active set.
func NewActive[Msg any]() *Active[Msg] {
	return &Active[Msg]{byKind: make(map[subs.Kind]*kindSet[Msg])}
}

func (a *Active[Msg]) ensureKind(kind subs.Kind) *kindSet[Msg] {
	ks, ok := a.byKind[kind]
	if !ok {
		ks = newKindSet[Msg]()
		a.byKind[kind] = ks
		a.kinds = append(a.kinds, kind)
	}
	return ks
}

// Lookup returns the live record for (kind, key). A nil receiver is an
// empty set.
func (a *Active[Msg]) Lookup(kind subs.Kind, key string) (Record[Msg], bool) {
	if a == nil {
		return Record[Msg]{}, false
	}
	ks, ok := a.byKind[kind]
	if !ok {
		return Record[Msg]{}, false
	}
	rec, ok := ks.records[key]
	return rec, ok
}

// Kinds returns the kinds holding at least one record, in first-seen order.
func (a *Active[Msg]) Kinds() []subs.Kind {
	if a == nil {
		return nil
	}
	out := make([]subs.Kind, len(a.kinds))
	copy(out, a.kinds)
	return out
}

// Keys returns the live keys of one kind in insertion order.
func (a *Active[Msg]) Keys(kind subs.Kind) []string {
	if a == nil {
		return nil
	}
	ks, ok := a.byKind[kind]
	if !ok {
		return nil
	}
	out := make([]string, len(ks.order))
	copy(out, ks.order)
	return out
}

// Len returns the number of live subscriptions across all kinds.
func (a *Active[Msg]) Len() int {
	if a == nil {
		return 0
	}
	n := 0
	for _, ks := range a.byKind {
		n += len(ks.records)
	}
	return n
}

// Start describes one subscription a manager must open.
type Start struct {
	Handle  string
	Key     string
	Request subs.Request
}

// KindDelta is the start/stop work of a single kind for one iteration.
// Compute only produces a delta when at least one list is non-empty, so
// unchanged kinds never reach their manager.
type KindDelta[Msg any] struct {
	Kind   subs.Kind
	Starts []Start
	Stops  []string
}

// DupKey reports a (kind, key) that occurred more than once within a
// single flattening. The fold is last-write-wins on the mapper and
// request; callers may surface the duplicates as a warning.
type DupKey struct {
	Kind subs.Kind
	Key  string
}

// Compute folds the flattened entries against the previous active set
// and returns the next active set together with the per-kind deltas.
//
// Keys present in both sets keep the handle they were started with and
// are re-bound to the entry's mapper without any manager involvement.
// New keys receive a handle from newHandle. Starts follow flatten
// order, stops follow the previous insertion order, and delta kinds
// appear new-tree-first, then kinds that vanished entirely.
func Compute[Msg any](
	prev *Active[Msg],
	entries []subs.Entry[Msg],
	newHandle func() string,
) (*Active[Msg], []KindDelta[Msg], []DupKey) {
	next := NewActive[Msg]()
	var dups []DupKey

	for _, e := range entries {
		ks := next.ensureKind(e.Kind)
		rec := Record[Msg]{Request: e.Request, Mapper: e.Mapper}
		if cur, seen := ks.records[e.Key]; seen {
			dups = append(dups, DupKey{Kind: e.Kind, Key: e.Key})
			rec.Handle = cur.Handle
		} else if old, retained := prev.Lookup(e.Kind, e.Key); retained {
			rec.Handle = old.Handle
		} else {
			rec.Handle = newHandle()
		}
		ks.insert(e.Key, rec)
	}

	var deltas []KindDelta[Msg]
	for _, kind := range next.kinds {
		ks := next.byKind[kind]
		var starts []Start
		for _, key := range ks.order {
			if _, retained := prev.Lookup(kind, key); retained {
				continue
			}
			rec := ks.records[key]
			starts = append(starts, Start{Handle: rec.Handle, Key: key, Request: rec.Request})
		}
		var stops []string
		if prev != nil {
			for _, key := range prev.Keys(kind) {
				if _, kept := ks.records[key]; !kept {
					stops = append(stops, key)
				}
			}
		}
		if len(starts) > 0 || len(stops) > 0 {
			deltas = append(deltas, KindDelta[Msg]{Kind: kind, Starts: starts, Stops: stops})
		}
	}
	if prev != nil {
		for _, kind := range prev.kinds {
			if _, stillThere := next.byKind[kind]; stillThere {
				continue
			}
			stops := prev.Keys(kind)
			if len(stops) == 0 {
				continue
			}
			deltas = append(deltas, KindDelta[Msg]{Kind: kind, Stops: stops})
		}
	}

	return next, deltas, dups
}
