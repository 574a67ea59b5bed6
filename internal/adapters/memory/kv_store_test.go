package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/despertar/internal/adapters/memory"
	"github.com/emiliopalmerini/despertar/internal/ports"
)

func TestKeyValueStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKeyValueStore()

	_, err := s.Get(ctx, "ab_test_x_u")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, s.Set(ctx, "ab_test_x_u", "A"))
	v, err := s.Get(ctx, "ab_test_x_u")
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	require.NoError(t, s.Set(ctx, "ab_test_x_u", "B"))
	v, _ = s.Get(ctx, "ab_test_x_u")
	assert.Equal(t, "B", v)

	require.NoError(t, s.Remove(ctx, "ab_test_x_u"))
	require.NoError(t, s.Remove(ctx, "ab_test_x_u"))
	_, err = s.Get(ctx, "ab_test_x_u")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestKeyValueStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := memory.NewKeyValueStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%10)
			_ = s.Set(ctx, key, "v")
			_, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
}
