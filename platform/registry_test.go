package platform_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/subscript_ive_go/platform"
)

func noopFactory(context.Context, platform.EmitFunc) platform.Manager {
	return nil
}

func TestRegistry_RejectsDuplicateKinds(t *testing.T) {
	reg := platform.NewRegistry()
	require.NoError(t, reg.Register("timer", noopFactory))

	err := reg.Register("timer", noopFactory)
	assert.ErrorIs(t, err, platform.ErrKindRegistered)
}

func TestRegistry_RejectsNilFactory(t *testing.T) {
	reg := platform.NewRegistry()
	err := reg.Register("timer", nil)
	assert.ErrorIs(t, err, platform.ErrNilFactory)
}
