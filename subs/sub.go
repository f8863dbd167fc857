package subs

import "fmt"

// Kind names one category of managed subscription ("timer", "socket", ...).
// Every Kind in use is served by exactly one manager registered with the
// platform runtime.
type Kind string

// Event is the payload a manager emits for an active subscription. Each
// manager documents the concrete event types it emits; mappers assert on
// those types.
type Event = any

// Request says what a leaf subscribes to within its Kind, and how that
// subscription is identified. SubKey is the manager-defined equality
// contract: requests with equal keys are the same subscription, and a
// running subscription is never restarted while its key stays the same.
type Request interface {
	SubKey() string
}

// Sub is an immutable description of what to listen for. The zero of the
// algebra is None, composition is Batch, and Map rewrites messages without
// touching subscription identity. Constructing a Sub never fails and never
// touches a live resource.
type Sub[Msg any] interface {
	// sealedSub keeps the variant set closed so folds stay exhaustive.
	// Msg appears in the signature so the type parameter is inferable
	// from any Sub value.
	sealedSub(Msg)
}

type none[Msg any] struct{}

func (none[Msg]) sealedSub(Msg) {}

type leaf[Msg any] struct {
	kind    Kind
	request Request
	mapper  func(Event) Msg
}

func (leaf[Msg]) sealedSub(Msg) {}

type batch[Msg any] struct {
	items []Sub[Msg]
}

func (batch[Msg]) sealedSub(Msg) {}

// None returns the empty subscription, the identity element of Batch.
func None[Msg any]() Sub[Msg] {
	return none[Msg]{}
}

// Leaf declares a single subscription of the given kind. The request
// carries the manager-specific payload along with its identity key, and
// mapper turns every event the manager emits for this subscription into an
// application message.
func Leaf[Msg any](kind Kind, request Request, mapper func(Event) Msg) Sub[Msg] {
	if request == nil {
		panic("subs.Leaf: nil request")
	}
	if mapper == nil {
		panic("subs.Leaf: nil mapper")
	}
	return leaf[Msg]{kind: kind, request: request, mapper: mapper}
}

// Batch composes subscriptions in order. Nil and None items are dropped
// and a single survivor is returned unwrapped; neither shortcut is
// observable, since the active set only ever sees the flattened leaf
// sequence.
func Batch[Msg any](items ...Sub[Msg]) Sub[Msg] {
	kept := make([]Sub[Msg], 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, isNone := item.(none[Msg]); isNone {
			continue
		}
		kept = append(kept, item)
	}
	switch len(kept) {
	case 0:
		return none[Msg]{}
	case 1:
		return kept[0]
	default:
		return batch[Msg]{items: kept}
	}
}

// Map rebinds every leaf mapper through f, preserving kind, request, and
// leaf order. Mapping is pure: it never starts, stops, or restarts a
// subscription, so nesting components that speak their own message types
// costs nothing at the resource level.
func Map[A, Msg any](f func(A) Msg, s Sub[A]) Sub[Msg] {
	switch s := s.(type) {
	case nil:
		return none[Msg]{}
	case none[A]:
		return none[Msg]{}
	case leaf[A]:
		inner := s.mapper
		return leaf[Msg]{
			kind:    s.kind,
			request: s.request,
			mapper: func(e Event) Msg {
				return f(inner(e))
			},
		}
	case batch[A]:
		mapped := make([]Sub[Msg], len(s.items))
		for i, item := range s.items {
			mapped[i] = Map(f, item)
		}
		return batch[Msg]{items: mapped}
	default:
		// Sub is sealed; an unknown variant is a bug in this package.
		panic(fmt.Sprintf("unrecognized subscription variant: %T", s))
	}
}

// Entry is one flattened leaf: the derived identity plus the mapper the
// dispatch loop will store for it.
type Entry[Msg any] struct {
	Kind    Kind
	Key     string
	Request Request
	Mapper  func(Event) Msg
}

// Flatten folds a subscription tree into its leaves, left to right. The
// order is part of the contract: duplicate identities within one
// flattening resolve by last-write-wins over this sequence.
func Flatten[Msg any](s Sub[Msg]) []Entry[Msg] {
	return appendEntries(nil, s)
}

func appendEntries[Msg any](acc []Entry[Msg], s Sub[Msg]) []Entry[Msg] {
	switch s := s.(type) {
	case nil:
		return acc
	case none[Msg]:
		return acc
	case leaf[Msg]:
		return append(acc, Entry[Msg]{
			Kind:    s.kind,
			Key:     s.request.SubKey(),
			Request: s.request,
			Mapper:  s.mapper,
		})
	case batch[Msg]:
		for _, item := range s.items {
			acc = appendEntries(acc, item)
		}
		return acc
	default:
		panic(fmt.Sprintf("unrecognized subscription variant: %T", s))
	}
}
