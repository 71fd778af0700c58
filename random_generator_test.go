package yieldrisk

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureRandomGenerator(t *testing.T) {
	t.Run("default_cache_size", func(t *testing.T) {
		g := NewSecureRandomGenerator()
		assert.Equal(t, DefaultFastRandomGeneratorCacheSize, g.cacheSize)

		g = NewSecureRandomGenerator(0)
		assert.Equal(t, DefaultFastRandomGeneratorCacheSize, g.cacheSize)
	})

	t.Run("range", func(t *testing.T) {
		g := NewSecureRandomGenerator(16)
		// 跨越多次缓存填充
		for range 100 {
			f, err := g.GenerateFloat()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, f, 0.0)
			assert.Less(t, f, 1.0)
		}
	})

	t.Run("concurrent", func(t *testing.T) {
		g := NewSecureRandomGenerator(8)
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					_, err := g.GenerateFloat()
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()
	})
}

func TestSeededRandomGenerator(t *testing.T) {
	a := NewSeededRandomGenerator(42)
	b := NewSeededRandomGenerator(42)
	c := NewSeededRandomGenerator(43)

	same, different := true, false
	for range 100 {
		x, err := a.GenerateFloat()
		require.NoError(t, err)
		y, _ := b.GenerateFloat()
		z, _ := c.GenerateFloat()

		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
		same = same && x == y
		different = different || x != z
	}
	assert.True(t, same)
	assert.True(t, different)
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
