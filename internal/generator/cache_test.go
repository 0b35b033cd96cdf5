package generator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Conceptual-Machines/music-track-generator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestCacheReusesIdenticalConfiguration(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)

	a, err := cache.Get(context.Background(), Options{Mode: config.ModeSimulate})
	require.NoError(t, err)
	b, err := cache.Get(context.Background(), Options{Mode: config.ModeSimulate, Location: defaultLocation})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheSeparatesConfigurations(t *testing.T) {
	cache, err := NewCache(8)
	require.NoError(t, err)

	calls := 0
	factory := fakeClient(&calls)

	sim, err := cache.Get(context.Background(), Options{Mode: config.ModeSimulate})
	require.NoError(t, err)
	eu, err := cache.Get(context.Background(), Options{Mode: config.ModeSimulate, Location: "europe-west4"})
	require.NoError(t, err)
	gcp, err := cache.Get(context.Background(), Options{Mode: config.ModeGCP, ProjectID: "None", newClient: factory})
	require.NoError(t, err)

	assert.NotSame(t, sim, eu)
	assert.NotSame(t, sim, gcp)
	assert.Equal(t, 3, cache.Len())
	assert.Equal(t, 1, calls)

	again, err := cache.Get(context.Background(), Options{Mode: config.ModeGCP, ProjectID: "None", newClient: factory})
	require.NoError(t, err)
	assert.Same(t, gcp, again)
	assert.Equal(t, 1, calls)
}

func TestCacheDoesNotStoreFailures(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), Options{Mode: config.ModeGCP})
	require.Error(t, err)
	assert.Zero(t, cache.Len())
}

func TestKeyDistinguishesAbsentProject(t *testing.T) {
	absent := keyFor(Options{Mode: config.ModeGCP})
	literal := keyFor(Options{Mode: config.ModeGCP, ProjectID: "None"})
	assert.NotEqual(t, absent, literal)
}

func TestCachePurge(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), Options{})
	require.NoError(t, err)

	cache.Purge()
	assert.Zero(t, cache.Len())
}

func TestCacheServesHitsDuringSlowBuild(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)

	ctx := context.Background()
	sim, err := cache.Get(ctx, Options{Mode: config.ModeSimulate})
	require.NoError(t, err)

	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := func(_ context.Context, _ *genai.ClientConfig) (*genai.Client, error) {
		if calls.Add(1) == 1 {
			close(entered)
		}
		<-release
		return &genai.Client{}, nil
	}
	gcpOpts := Options{Mode: config.ModeGCP, ProjectID: "slow-project", newClient: slow}

	const waiters = 4
	results := make([]*Generator, waiters)
	var wg sync.WaitGroup
	for i := range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, err := cache.Get(ctx, gcpOpts)
			assert.NoError(t, err)
			results[i] = g
		}()
	}

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("build never started")
	}

	hit := make(chan *Generator, 1)
	go func() {
		g, _ := cache.Get(ctx, Options{Mode: config.ModeSimulate})
		hit <- g
	}()
	select {
	case g := <-hit:
		assert.Same(t, sim, g)
	case <-time.After(5 * time.Second):
		t.Fatal("cached lookup blocked behind an unrelated build")
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	require.NotNil(t, results[0])
	for _, g := range results[1:] {
		assert.Same(t, results[0], g)
	}
	assert.Equal(t, 2, cache.Len())
}

func TestCacheWaiterHonorsContext(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	slow := func(_ context.Context, _ *genai.ClientConfig) (*genai.Client, error) {
		close(entered)
		<-release
		return &genai.Client{}, nil
	}
	opts := Options{Mode: config.ModeGCP, ProjectID: "slow-project", newClient: slow}

	go func() {
		_, _ = cache.Get(context.Background(), opts)
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cache.Get(ctx, opts)
	assert.ErrorIs(t, err, context.Canceled)
}
