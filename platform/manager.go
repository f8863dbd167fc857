package platform

import (
	"context"

	"github.com/on-the-ground/subscript_ive_go/subs"
)

// StartRequest describes one subscription a manager must open.
//
// Handle is a runtime-assigned id, unique for the lifetime of the
// subscription, that the manager may use to tag its resources. Key is
// the request identity within the kind; stop instructions refer to it.
type StartRequest struct {
	Handle  string
	Key     string
	Request subs.Request
}

// EmitFunc delivers one event from a manager into the runtime inbox.
//
// Emission is serialized with every other runtime input and blocks when
// the inbox is full. It returns without delivering once ctx is done or
// the runtime has stopped, so manager goroutines never leak on
// shutdown. Managers must call it from their own goroutines, never
// from inside OnEffectsChange.
type EmitFunc func(ctx context.Context, key string, event subs.Event)

// Manager owns the live resources of one effect kind.
//
// The runtime creates a manager lazily, on the first dispatch iteration
// whose tree references its kind, and keeps it until shutdown. A
// manager runs whatever internal concurrency it needs; the runtime only
// ever talks to it between loop steps.
type Manager interface {
	// OnEffectsChange is invoked at most once per dispatch iteration,
	// and only when this kind has work: starts lists subscriptions to
	// open, stops lists keys to close. Keys live in both the previous
	// and the new tree are never mentioned.
	//
	// Failures stay inside the manager. A manager that cannot reach
	// its backend retries on its own schedule and reports outcomes as
	// events; OnEffectsChange must not panic and has no error to
	// return.
	OnEffectsChange(ctx context.Context, starts []StartRequest, stops []string)

	// Shutdown releases every remaining resource. Called exactly once,
	// when the runtime stops. After it returns no further events may
	// be emitted.
	Shutdown(ctx context.Context) error
}

// Factory builds the manager of one effect kind. The emit function is
// the manager's only channel back into the runtime.
//
// Factories must not fail: a manager that cannot connect yet starts
// anyway and keeps retrying internally.
type Factory func(ctx context.Context, emit EmitFunc) Manager
