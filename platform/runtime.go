package platform

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/on-the-ground/subscript_ive_go/platform/internal/diff"
	"github.com/on-the-ground/subscript_ive_go/subs"
)

var (
	// ErrNilInit is returned by New when Config.Init is missing.
	ErrNilInit = fmt.Errorf("config requires an Init function")
	// ErrNilUpdate is returned by New when Config.Update is missing.
	ErrNilUpdate = fmt.Errorf("config requires an Update function")
	// ErrNilSubscriptions is returned by New when Config.Subscriptions is missing.
	ErrNilSubscriptions = fmt.Errorf("config requires a Subscriptions function")
	// ErrNilRegistry is returned by New when Config.Registry is missing.
	ErrNilRegistry = fmt.Errorf("config requires a manager registry")
	// ErrRuntimeRunning is returned by Run when the runtime is already running.
	ErrRuntimeRunning = fmt.Errorf("runtime already running")
	// ErrRuntimeStopped is returned by Send once the runtime has stopped.
	ErrRuntimeStopped = fmt.Errorf("runtime stopped")
)

const (
	defaultInboxSize   = 16
	defaultJournalSize = 16
)

// Config assembles a runtime.
//
// Init, Update, and Subscriptions are the application: Init builds the
// first model, Update folds one message into the model, and
// Subscriptions derives the subscription tree the application wants
// active for a given model. All three must be pure with respect to the
// runtime: they are called from the dispatch goroutine only.
type Config[Model, Msg any] struct {
	Init          func() Model
	Update        func(Model, Msg) Model
	Subscriptions func(Model) subs.Sub[Msg]

	// Registry supplies the manager factory of every kind the
	// application may subscribe to. Leaves naming an unregistered kind
	// are logged and skipped; they never become active.
	Registry *Registry

	// InboxSize bounds the serialized input queue shared by manager
	// events and Send. Defaults to 16.
	InboxSize int

	// JournalSize bounds the Changes diagnostics channel. Defaults
	// to 16.
	JournalSize int

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger

	// WarnOnDuplicateKeys logs a warning whenever one flattened tree
	// declares the same (kind, key) twice. The fold is last-write-wins
	// either way; the warning exists because duplicates usually mean a
	// mis-structured Subscriptions function.
	WarnOnDuplicateKeys bool

	// Metrics enables Prometheus instruments when non-nil.
	Metrics prometheus.Registerer
}

func (cfg Config[Model, Msg]) validate() error {
	var errs error
	if cfg.Init == nil {
		errs = multierr.Append(errs, ErrNilInit)
	}
	if cfg.Update == nil {
		errs = multierr.Append(errs, ErrNilUpdate)
	}
	if cfg.Subscriptions == nil {
		errs = multierr.Append(errs, ErrNilSubscriptions)
	}
	if cfg.Registry == nil {
		errs = multierr.Append(errs, ErrNilRegistry)
	}
	return errs
}

func (cfg Config[Model, Msg]) normalize() Config[Model, Msg] {
	if cfg.InboxSize < 1 {
		cfg.InboxSize = defaultInboxSize
	}
	if cfg.JournalSize < 1 {
		cfg.JournalSize = defaultJournalSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// input is one serialized unit of work for the dispatch loop: either an
// event emitted by a manager or a message injected through Send.
type input[Msg any] struct {
	kind    subs.Kind
	key     string
	event   subs.Event
	msg     Msg
	fromApp bool
}

// Runtime is the dispatch loop driving managed subscriptions.
//
// Run executes every model update, every diff, and every manager
// OnEffectsChange call on a single goroutine; managers emit events from
// their own goroutines into one bounded inbox, so the loop never
// observes two inputs at once and events reach Update in arrival order.
type Runtime[Model, Msg any] struct {
	cfg     Config[Model, Msg]
	metrics *runtimeMetrics
	inbox   chan input[Msg]
	journal chan ChangeNotice
	stopped chan struct{}
	running atomic.Bool
}

// New validates and normalizes cfg and builds a runtime. The runtime
// holds no live resources until Run is called.
func New[Model, Msg any](cfg Config[Model, Msg]) (*Runtime[Model, Msg], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalize()
	metrics, err := newRuntimeMetrics(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("register runtime metrics: %w", err)
	}
	return &Runtime[Model, Msg]{
		cfg:     cfg,
		metrics: metrics,
		inbox:   make(chan input[Msg], cfg.InboxSize),
		journal: make(chan ChangeNotice, cfg.JournalSize),
		stopped: make(chan struct{}),
	}, nil
}

// Send injects an application message through the same serialized inbox
// manager events travel, preserving the single-queue ordering
// guarantee. It blocks while the inbox is full and returns
// ErrRuntimeStopped once the runtime has shut down.
func (r *Runtime[Model, Msg]) Send(ctx context.Context, msg Msg) error {
	// select picks randomly among ready cases, so the stopped check
	// must come first: a message is never accepted into a dead inbox.
	select {
	case <-r.stopped:
		return ErrRuntimeStopped
	default:
	}
	select {
	case r.inbox <- input[Msg]{msg: msg, fromApp: true}:
		return nil
	case <-r.stopped:
		return ErrRuntimeStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Changes exposes the lifecycle journal: one notice per subscription
// start or stop. Notices are dropped when the observer lags, so this is
// diagnostics only, never control flow. The channel is closed when Run
// returns.
func (r *Runtime[Model, Msg]) Changes() <-chan ChangeNotice {
	return r.journal
}

// loopState is the dispatch loop's private world: the model, the active
// set, and every manager instantiated so far. Confined to the Run
// goroutine, per the ownership rules in the package comment.
type loopState[Model, Msg any] struct {
	model        Model
	active       *diff.Active[Msg]
	managers     map[subs.Kind]Manager
	managerOrder []subs.Kind
	unknownKinds map[subs.Kind]struct{}
}

// Run drives the loop until ctx is cancelled: it applies the initial
// model's subscriptions, then folds inbox inputs into model updates,
// re-diffing and re-applying subscriptions after each one. On
// cancellation every instantiated manager is shut down exactly once, in
// creation order, and their errors are aggregated into the return
// value. A clean shutdown returns nil.
func (r *Runtime[Model, Msg]) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRuntimeRunning
	}
	defer close(r.journal)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st := &loopState[Model, Msg]{
		model:        r.cfg.Init(),
		active:       diff.NewActive[Msg](),
		managers:     make(map[subs.Kind]Manager),
		unknownKinds: make(map[subs.Kind]struct{}),
	}
	r.applySubscriptions(ctx, st)

	for {
		select {
		case <-ctx.Done():
			return r.shutdown(ctx, st)
		case in := <-r.inbox:
			msg, ok := r.resolve(st, in)
			if !ok {
				continue
			}
			st.model = r.cfg.Update(st.model, msg)
			r.applySubscriptions(ctx, st)
		}
	}
}

// resolve turns one inbox input into a message, or reports that it must
// be dropped. Events whose (kind, key) is no longer active are the
// expected late-event race: a manager may have emitted before it
// acknowledged a stop. They are dropped silently.
func (r *Runtime[Model, Msg]) resolve(st *loopState[Model, Msg], in input[Msg]) (Msg, bool) {
	if in.fromApp {
		return in.msg, true
	}
	rec, ok := st.active.Lookup(in.kind, in.key)
	if !ok {
		r.metrics.recordDropped(in.kind)
		r.cfg.Logger.Debug("dropped late event for inactive subscription",
			zap.String("kind", string(in.kind)),
			zap.String("key", in.key),
		)
		var zero Msg
		return zero, false
	}
	r.metrics.recordDispatched(in.kind)
	return rec.Mapper(in.event), true
}

// applySubscriptions recomputes the tree from the current model, diffs
// it against the active set, and applies the per-kind deltas. Kinds
// with no delta never hear from the runtime; retained keys only have
// their mapper re-bound, inside the diff.
func (r *Runtime[Model, Msg]) applySubscriptions(ctx context.Context, st *loopState[Model, Msg]) {
	r.metrics.iteration()

	entries := subs.Flatten(r.cfg.Subscriptions(st.model))
	kept := make([]subs.Entry[Msg], 0, len(entries))
	for _, e := range entries {
		if !r.cfg.Registry.has(e.Kind) {
			if _, warned := st.unknownKinds[e.Kind]; !warned {
				st.unknownKinds[e.Kind] = struct{}{}
				r.cfg.Logger.Error("no manager registered for effect kind, leaf skipped",
					zap.String("kind", string(e.Kind)),
				)
			}
			continue
		}
		kept = append(kept, e)
	}

	next, deltas, dups := diff.Compute(st.active, kept, uuid.NewString)
	for _, d := range dups {
		r.metrics.recordDuplicate(d.Kind)
		if r.cfg.WarnOnDuplicateKeys {
			r.cfg.Logger.Warn("duplicate subscription key within one tree, last mapper wins",
				zap.String("kind", string(d.Kind)),
				zap.String("key", d.Key),
			)
		}
	}

	for _, delta := range deltas {
		mgr := r.managerOf(ctx, st, delta.Kind)

		starts := make([]StartRequest, len(delta.Starts))
		for i, s := range delta.Starts {
			starts[i] = StartRequest{Handle: s.Handle, Key: s.Key, Request: s.Request}
		}
		mgr.OnEffectsChange(ctx, starts, delta.Stops)

		r.metrics.recordStarts(delta.Kind, len(delta.Starts))
		r.metrics.recordStops(delta.Kind, len(delta.Stops))
		r.metrics.setActive(delta.Kind, len(next.Keys(delta.Kind)))

		for _, s := range delta.Starts {
			r.notify(ChangeNotice{Op: OpStart, Kind: delta.Kind, Key: s.Key, Handle: s.Handle, Span: now()})
		}
		for _, key := range delta.Stops {
			// The record still lives in the outgoing active set.
			rec, _ := st.active.Lookup(delta.Kind, key)
			r.notify(ChangeNotice{Op: OpStop, Kind: delta.Kind, Key: key, Handle: rec.Handle, Span: now()})
		}
	}

	st.active = next
}

// managerOf returns the kind's manager, creating it on first reference.
// Managers live until shutdown; the registry guarantees a factory
// exists because unregistered kinds were filtered out above.
func (r *Runtime[Model, Msg]) managerOf(ctx context.Context, st *loopState[Model, Msg], kind subs.Kind) Manager {
	if mgr, ok := st.managers[kind]; ok {
		return mgr
	}
	factory, _ := r.cfg.Registry.factoryOf(kind)
	mgr := factory(ctx, r.emitFor(kind))
	st.managers[kind] = mgr
	st.managerOrder = append(st.managerOrder, kind)
	r.cfg.Logger.Info("manager created", zap.String("kind", string(kind)))
	return mgr
}

// emitFor builds the kind-scoped emit function handed to a manager
// factory. Delivery blocks while the inbox is full; it aborts without
// delivering once the caller's ctx is done or the runtime has stopped,
// so manager goroutines never leak on shutdown.
func (r *Runtime[Model, Msg]) emitFor(kind subs.Kind) EmitFunc {
	return func(ctx context.Context, key string, event subs.Event) {
		select {
		case r.inbox <- input[Msg]{kind: kind, key: key, event: event}:
		case <-r.stopped:
		case <-ctx.Done():
		}
	}
}

// notify appends to the change journal without ever blocking the loop.
func (r *Runtime[Model, Msg]) notify(notice ChangeNotice) {
	select {
	case r.journal <- notice:
	default:
	}
}

// shutdown closes the inbox for senders and stops every instantiated
// manager once, in creation order. Managers get a context detached from
// the cancellation that ended the loop so they can still release remote
// resources.
func (r *Runtime[Model, Msg]) shutdown(ctx context.Context, st *loopState[Model, Msg]) error {
	close(r.stopped)
	shutdownCtx := context.WithoutCancel(ctx)

	var errs error
	for _, kind := range st.managerOrder {
		r.cfg.Logger.Info("shutting down manager", zap.String("kind", string(kind)))
		if err := st.managers[kind].Shutdown(shutdownCtx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shutdown of %q manager: %w", kind, err))
		}
	}
	return errs
}
