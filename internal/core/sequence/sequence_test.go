package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbooks/internal/store"
)

func TestNextIssuesSequentialNumbers(t *testing.T) {
	g := New(store.NewMemoryKV())
	ctx := context.Background()

	first, err := g.Next(ctx, "BILL")
	require.NoError(t, err)
	assert.Equal(t, "BILL-00001", first)

	second, err := g.Next(ctx, "BILL")
	require.NoError(t, err)
	assert.Equal(t, "BILL-00002", second)

	// Independent prefix keeps its own counter.
	other, err := g.Next(ctx, "PUR")
	require.NoError(t, err)
	assert.Equal(t, "PUR-00001", other)
}

func TestCounterSurvivesNewGenerator(t *testing.T) {
	kv := store.NewMemoryKV()
	ctx := context.Background()

	g := New(kv)
	_, err := g.Next(ctx, "BILL")
	require.NoError(t, err)

	// A fresh generator over the same KV continues, never restarts.
	g2 := New(kv)
	num, err := g2.Next(ctx, "BILL")
	require.NoError(t, err)
	assert.Equal(t, "BILL-00002", num)
}

func TestConcurrentNextNeverDuplicates(t *testing.T) {
	g := New(store.NewMemoryKV())
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	results := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := g.Next(ctx, "BILL")
			assert.NoError(t, err)
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for num := range results {
		assert.False(t, seen[num], "duplicate number %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestBumpNeverMovesBackwards(t *testing.T) {
	g := New(store.NewMemoryKV())
	ctx := context.Background()

	require.NoError(t, g.Bump(ctx, "BILL", 40))
	num, err := g.Next(ctx, "BILL")
	require.NoError(t, err)
	assert.Equal(t, "BILL-00041", num)

	// Lower bump is ignored.
	require.NoError(t, g.Bump(ctx, "BILL", 10))
	num, err = g.Next(ctx, "BILL")
	require.NoError(t, err)
	assert.Equal(t, "BILL-00042", num)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(42), ParseNumber("BILL", "BILL-00042"))
	assert.Equal(t, int64(0), ParseNumber("BILL", "PUR-00042"))
	assert.Equal(t, int64(0), ParseNumber("BILL", "not a number"))
	assert.Equal(t, int64(7), ParseNumber("EXP", Format("EXP", 7)))
}
