package platformtest

import (
	"context"
	"sync"

	"github.com/on-the-ground/subscript_ive_go/platform"
	"github.com/on-the-ground/subscript_ive_go/subs"
)

// Call is one recorded OnEffectsChange invocation.
type Call struct {
	Starts []platform.StartRequest
	Stops  []string
}

// RecordingManager is a scriptable manager for tests: it records every
// OnEffectsChange call, captures the emit function the runtime hands
// its factory, and lets the test push events through it.
//
// Calls are delivered on a buffered channel so tests can wait for the
// runtime to reach a given iteration without polling.
type RecordingManager struct {
	mu          sync.Mutex
	emit        platform.EmitFunc
	calls       []Call
	callCh      chan Call
	created     chan struct{}
	createdOnce sync.Once
	shutdowns   int
	shutdownErr error
}

// NewRecordingManager returns a manager whose Factory can be registered
// under any kind.
func NewRecordingManager() *RecordingManager {
	return &RecordingManager{
		callCh:  make(chan Call, 32),
		created: make(chan struct{}),
	}
}

// Factory satisfies platform.Factory. The runtime calls it once per
// kind the manager is registered under; Emit then routes through the
// most recently captured emit function.
func (m *RecordingManager) Factory(_ context.Context, emit platform.EmitFunc) platform.Manager {
	m.mu.Lock()
	m.emit = emit
	m.mu.Unlock()
	m.createdOnce.Do(func() { close(m.created) })
	return m
}

// OnEffectsChange records the call and forwards it to the call channel.
func (m *RecordingManager) OnEffectsChange(_ context.Context, starts []platform.StartRequest, stops []string) {
	call := Call{
		Starts: append([]platform.StartRequest(nil), starts...),
		Stops:  append([]string(nil), stops...),
	}
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
	select {
	case m.callCh <- call:
	default:
	}
}

// Shutdown counts invocations and returns the scripted error, if any.
func (m *RecordingManager) Shutdown(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdowns++
	return m.shutdownErr
}

// FailShutdownWith scripts the error Shutdown will return.
func (m *RecordingManager) FailShutdownWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdownErr = err
}

// Emit pushes an event into the runtime for the given key, as the real
// manager's internal goroutines would. It waits until the runtime has
// created the manager, so tests may call it as soon as registration is
// done.
func (m *RecordingManager) Emit(ctx context.Context, key string, event subs.Event) {
	select {
	case <-m.created:
	case <-ctx.Done():
		return
	}
	m.mu.Lock()
	emit := m.emit
	m.mu.Unlock()
	emit(ctx, key, event)
}

// CallCh exposes the ordered stream of recorded calls.
func (m *RecordingManager) CallCh() <-chan Call {
	return m.callCh
}

// Calls snapshots every call recorded so far.
func (m *RecordingManager) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// ShutdownCount reports how many times Shutdown ran.
func (m *RecordingManager) ShutdownCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdowns
}
