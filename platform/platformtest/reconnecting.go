package platformtest

import (
	"context"
	"sync"
	"time"

	"github.com/on-the-ground/subscript_ive_go/platform"
	"github.com/on-the-ground/subscript_ive_go/shared/helper"
)

// ConnEvent is the single event type ReconnectingManager emits: the
// outcome of a dial for one key. Err is nil on success; otherwise it
// carries the final error after the retry budget ran out.
type ConnEvent struct {
	Key string
	Err error
}

// ReconnectingManager demonstrates the recovery obligation a manager
// owns: each started key is dialed in its own goroutine with
// helper.Retry, and the outcome is reported as an ordinary event, never
// as a failure of OnEffectsChange. Stopping a key cancels its dial
// goroutine; the runtime drops whatever that goroutine had already
// emitted for the key.
type ReconnectingManager struct {
	// Dial attempts one connection for the key. Called repeatedly
	// until it succeeds or MaxAttempts is spent.
	Dial func(ctx context.Context, key string) error

	MaxAttempts int
	Backoff     time.Duration

	mu      sync.Mutex
	emit    platform.EmitFunc
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// Factory satisfies platform.Factory.
func (m *ReconnectingManager) Factory(_ context.Context, emit platform.EmitFunc) platform.Manager {
	m.mu.Lock()
	m.emit = emit
	m.cancels = make(map[string]context.CancelFunc)
	m.mu.Unlock()
	return m
}

func (m *ReconnectingManager) OnEffectsChange(ctx context.Context, starts []platform.StartRequest, stops []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range stops {
		if cancel, ok := m.cancels[key]; ok {
			cancel()
			delete(m.cancels, key)
		}
	}

	for _, start := range starts {
		dialCtx, cancel := context.WithCancel(ctx)
		m.cancels[start.Key] = cancel
		m.wg.Add(1)
		go func(key string) {
			defer m.wg.Done()
			err := helper.Retry(dialCtx, m.MaxAttempts, m.Backoff, func() error {
				return m.Dial(dialCtx, key)
			})
			m.emit(dialCtx, key, ConnEvent{Key: key, Err: err})
		}(start.Key)
	}
}

// Shutdown cancels every remaining dial and waits for the goroutines to
// drain, honoring the no-events-after-shutdown rule.
func (m *ReconnectingManager) Shutdown(context.Context) error {
	m.mu.Lock()
	for key, cancel := range m.cancels {
		cancel()
		delete(m.cancels, key)
	}
	m.mu.Unlock()
	m.wg.Wait()
	return nil
}
