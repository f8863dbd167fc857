// Package platform drives managed subscriptions for Go applications.
//
// Subscript-ive Go separates what to listen for from how listening
// works: applications declare subscriptions as plain values (package
// subs), and this package's Runtime owns every live resource behind
// them — opening, closing, and recovering connections so user code
// never has to.
//
// # What is a managed subscription?
//
// A managed subscription is any external event source whose lifecycle
// (start/stop/retry) belongs to the runtime rather than to user code:
//   - a recurring timer,
//   - a socket that should reconnect with backoff,
//   - a feed that must be opened once and shared.
//
// # How does it work?
//
// Each effect kind registers a Manager factory in a Registry. On every
// dispatch iteration the Runtime:
//   - recomputes the subscription tree from the current model,
//   - diffs it against the active set,
//   - tells each affected manager which keys to start and stop,
//   - feeds manager events back through one serialized inbox.
//
// Unchanged subscriptions are never restarted, so a manager's internal
// recovery state (reconnect attempts, backoff timers) survives
// unrelated model updates. Rebinding a leaf's mapper re-routes its
// events without touching the connection.
//
// # Ownership rules
//
//   - The active set belongs to the dispatch loop alone.
//   - A manager's resources belong to that manager alone.
//   - All manager-to-loop traffic funnels through one bounded inbox;
//     the loop never observes two inputs at once.
//
// Managers absorb their own failures and report them as events. The
// only manager error the loop ever sees is the one returned from
// Shutdown.
//
// Example:
//
//	reg := platform.NewRegistry()
//	_ = reg.Register("timer", timer.NewManager)
//
//	rt, err := platform.New(platform.Config[App, Msg]{
//	    Init:          newApp,
//	    Update:        update,
//	    Subscriptions: subscriptions,
//	    Registry:      reg,
//	})
//	if err != nil {
//	    return err
//	}
//	return rt.Run(ctx)
package platform
