package querystore

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompute(t *testing.T) {
	store := New()

	doc, err := store.GetOrCompute("q => q.Me(o => o.FirstName)", func() (string, error) {
		return "{ me { firstName } }", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "{ me { firstName } }", doc)

	// The second call must not recompute.
	doc, err = store.GetOrCompute("q => q.Me(o => o.FirstName)", func() (string, error) {
		t.Fatal("compute called for recorded key")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "{ me { firstName } }", doc)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrComputeError(t *testing.T) {
	store := New()

	_, err := store.GetOrCompute("bad", func() (string, error) {
		return "", fmt.Errorf("no document")
	})
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())

	_, err = store.Get("bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrComputeConcurrent(t *testing.T) {
	store := New()

	var computed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := store.GetOrCompute("key", func() (string, error) {
				computed.Add(1)
				return "{ me { firstName } }", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "{ me { firstName } }", doc)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Len())
	assert.GreaterOrEqual(t, computed.Load(), int64(1))
}

func TestKeys(t *testing.T) {
	store := New()
	store.Put("b", "query b")
	store.Put("a", "query a")
	store.Put("c", "query c")

	assert.Equal(t, []string{"a", "b", "c"}, store.Keys())

	doc, err := store.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "query b", doc)
}
