package platformtest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/subscript_ive_go/platform"
	"github.com/on-the-ground/subscript_ive_go/platform/platformtest"
	"github.com/on-the-ground/subscript_ive_go/subs"
)

func TestRecordingManager_RegisteredUnderTwoKinds(t *testing.T) {
	mgr := platformtest.NewRecordingManager()
	reg := platform.NewRegistry()
	require.NoError(t, reg.Register("timer", mgr.Factory))
	require.NoError(t, reg.Register("socket", mgr.Factory))

	rt, err := platform.New(platform.Config[struct{}, string]{
		Init:   func() struct{} { return struct{}{} },
		Update: func(model struct{}, _ string) struct{} { return model },
		Subscriptions: func(struct{}) subs.Sub[string] {
			return subs.Batch(
				subs.Leaf("timer", feedReq("1s"), func(subs.Event) string { return "" }),
				subs.Leaf("socket", feedReq("ws://a"), func(subs.Event) string { return "" }),
			)
		},
		Registry: reg,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- rt.Run(ctx) }()

	// One factory call per kind, one OnEffectsChange call per kind.
	for i := 0; i < 2; i++ {
		select {
		case call := <-mgr.CallCh():
			assert.Len(t, call.Starts, 1)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for manager calls")
		}
	}

	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runtime did not stop")
	}
	assert.Equal(t, 2, mgr.ShutdownCount())
}
