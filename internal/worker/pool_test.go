package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulor-project/simulor/internal/testutil"
	"github.com/simulor-project/simulor/internal/worker"
)

func TestMap_AllInputsProcessed(t *testing.T) {
	p := worker.NewPool[int, string](4, testutil.NopLogger())

	inputs := make([]int, 20)
	for i := range inputs {
		inputs[i] = i
	}

	results := p.Map(context.Background(), inputs, func(_ context.Context, i int) (string, error) {
		return fmt.Sprintf("v-%d", i), nil
	})

	require.Len(t, results, 20)
	got := make([]string, 0, len(results))
	for _, r := range results {
		require.NoError(t, r.Error)
		got = append(got, r.Value)
	}
	sort.Strings(got)
	assert.Equal(t, "v-0", got[0])
	assert.Equal(t, "v-9", got[len(got)-1])
}

func TestMap_PerInputErrors(t *testing.T) {
	p := worker.NewPool[int, int](2, testutil.NopLogger())
	boom := errors.New("boom")

	results := p.Map(context.Background(), []int{1, 2, 3, 4}, func(_ context.Context, i int) (int, error) {
		if i%2 == 0 {
			return 0, boom
		}
		return i * 10, nil
	})

	require.Len(t, results, 4)
	var failures int
	for _, r := range results {
		if r.Error != nil {
			failures++
			assert.ErrorIs(t, r.Error, boom)
		}
	}
	assert.Equal(t, 2, failures)
}

func TestProcess_ContextCancelled(t *testing.T) {
	p := worker.NewPool[int, int](1, testutil.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())

	inputs := make(chan int)
	results := p.Process(ctx, inputs, func(ctx context.Context, i int) (int, error) {
		return i, nil
	})

	cancel()

	// Workers exit on cancellation and the results channel closes.
	for range results { //nolint:revive // draining until close
	}
}

func TestNewPool_MinimumSize(t *testing.T) {
	p := worker.NewPool[int, int](0, testutil.NopLogger())
	results := p.Map(context.Background(), []int{1}, func(_ context.Context, i int) (int, error) {
		return i, nil
	})
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Value)
}
