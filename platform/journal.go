package platform

import (
	"time"

	"github.com/rickb777/date/v2/timespan"

	"github.com/on-the-ground/subscript_ive_go/subs"
)

// TimeSpan bounds the instant a lifecycle change was applied.
type TimeSpan = timespan.TimeSpan

const epsilon = time.Millisecond

func now() TimeSpan {
	now := time.Now()
	return timespan.BetweenTimes(now.Add(-1*epsilon), now.Add(epsilon))
}

// ChangeOp names a subscription lifecycle transition.
type ChangeOp string

const (
	OpStart ChangeOp = "start"
	OpStop  ChangeOp = "stop"
)

// ChangeNotice is one entry of the runtime's change journal: a
// subscription started or stopped, with the handle it ran under and a
// span bounding when the change was applied.
//
// The journal is diagnostics only. Notices are dropped rather than
// queued when the observer lags, so nothing may depend on receiving
// all of them.
type ChangeNotice struct {
	Op     ChangeOp
	Kind   subs.Kind
	Key    string
	Handle string
	Span   TimeSpan
}
