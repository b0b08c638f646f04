package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]byte{}} }

func (s *fakeStore) Get(_ context.Context, key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (s *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func TestMemo_HitSkipsLoader(t *testing.T) {
	m := NewMemo[int]("test", time.Minute, nil, quietLogger())
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	v, err := m.Get(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = m.Get(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestMemo_ErrorsAreNotCached(t *testing.T) {
	m := NewMemo[string]("test", time.Minute, nil, quietLogger())
	boom := errors.New("boom")

	_, err := m.Get(context.Background(), "k", func(context.Context) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.Len())

	v, err := m.Get(context.Background(), "k", func(context.Context) (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestMemo_TTLExpiryAndPurge(t *testing.T) {
	m := NewMemo[int]("test", time.Minute, nil, quietLogger())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := m.Get(context.Background(), "a", load)
	assert.Equal(t, 1, v)

	now = now.Add(30 * time.Second)
	v, _ = m.Get(context.Background(), "a", load)
	assert.Equal(t, 1, v)

	now = now.Add(31 * time.Second)
	assert.Equal(t, 1, m.Purge())
	assert.Equal(t, 0, m.Len())

	v, _ = m.Get(context.Background(), "a", load)
	assert.Equal(t, 2, v)
}

func TestMemo_NoTTLNeverExpires(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second} {
		m := NewMemo[int]("test", ttl, nil, quietLogger())
		now := time.Now()
		m.now = func() time.Time { return now }

		_, _ = m.Get(context.Background(), "a", func(context.Context) (int, error) { return 1, nil })
		now = now.Add(1000 * time.Hour)
		assert.Equal(t, 0, m.Purge(), "ttl %v", ttl)
		assert.Equal(t, 1, m.Len(), "ttl %v", ttl)
		assert.Equal(t, 1, m.Flush(), "ttl %v", ttl)
		assert.Equal(t, 0, m.Len(), "ttl %v", ttl)
	}
}

func TestMemo_ConcurrentMissesShareOneLoad(t *testing.T) {
	m := NewMemo[int]("test", time.Minute, nil, quietLogger())
	var loads int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := m.Get(context.Background(), "k", load)
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	// Let the goroutines pile up on the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

func TestMemo_SharedStoreTier(t *testing.T) {
	store := newFakeStore()
	first := NewMemo[[]string]("names", time.Minute, store, quietLogger())
	second := NewMemo[[]string]("names", time.Minute, store, quietLogger())

	v, err := first.Get(context.Background(), "AAPL", func(context.Context) ([]string, error) {
		return []string{"Apple Inc."}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Inc."}, v)

	v, err = second.Get(context.Background(), "AAPL", func(context.Context) ([]string, error) {
		t.Fatal("loader should not run when the shared store has the key")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Inc."}, v)
	assert.Equal(t, 1, second.Len())
}

func TestMemo_Invalidate(t *testing.T) {
	m := NewMemo[int]("test", time.Minute, nil, quietLogger())
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}
	_, _ = m.Get(context.Background(), "k", load)
	m.Invalidate("k")
	v, _ := m.Get(context.Background(), "k", load)
	assert.Equal(t, 2, v)
}
