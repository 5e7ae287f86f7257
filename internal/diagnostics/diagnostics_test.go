package diagnostics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectReturnsPositiveCounts(t *testing.T) {
	r, err := Collect(context.Background())
	require.NoError(t, err)
	assert.Greater(t, r.LogicalCPUs, 0)
	assert.Greater(t, r.TotalMemoryMB, uint64(0))
}
