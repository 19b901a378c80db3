package credential

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botornot-chat/botornot/internal/model"
)

func TestNewPoolEmptyFails(t *testing.T) {
	_, err := NewPool(nil)
	require.ErrorIs(t, err, model.ErrEmptyCredentialPool)
}

func TestNextCyclesDeterministically(t *testing.T) {
	pool, err := NewPool([]string{"A", "B"})
	require.NoError(t, err)

	got := []string{pool.Next(), pool.Next(), pool.Next(), pool.Next(), pool.Next()}
	assert.Equal(t, []string{"A", "B", "A", "B", "A"}, got)
}

func TestNextSingleCredential(t *testing.T) {
	pool, err := NewPool([]string{"only"})
	require.NoError(t, err)

	assert.Equal(t, "only", pool.Next())
	assert.Equal(t, "only", pool.Next())
}

func TestNextConcurrentCallsCoverEveryCredentialEvenly(t *testing.T) {
	pool, err := NewPool([]string{"A", "B", "C"})
	require.NoError(t, err)

	const callers = 30
	var wg sync.WaitGroup
	results := make(chan string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- pool.Next()
		}()
	}
	wg.Wait()
	close(results)

	counts := map[string]int{}
	for s := range results {
		counts[s]++
	}
	// 30 calls over 3 credentials: exactly 10 each regardless of interleaving
	assert.Equal(t, map[string]int{"A": 10, "B": 10, "C": 10}, counts)
}
