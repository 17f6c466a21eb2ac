package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGet(t *testing.T) {
	s := New[string]()
	defer s.Close()

	require.NoError(t, s.Insert("k1", "v1", time.Minute))

	entry, ok := s.Get("k1")
	require.True(t, ok)
	assert.Equal(t, "v1", entry.Value)
	assert.WithinDuration(t, time.Now().Add(time.Minute), entry.Exp, time.Second)
}

func TestGetMissing(t *testing.T) {
	s := New[int]()
	defer s.Close()

	_, ok := s.Get("absent")
	assert.False(t, ok)
}

func TestInsertOverwrites(t *testing.T) {
	s := New[string]()
	defer s.Close()

	require.NoError(t, s.Insert("k", "old", time.Minute))
	require.NoError(t, s.Insert("k", "new", time.Minute))

	entry, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", entry.Value)
}

func TestInsertIfAbsent(t *testing.T) {
	s := New[string]()
	defer s.Close()

	assert.True(t, s.InsertIfAbsent("k", "first", time.Minute))
	assert.False(t, s.InsertIfAbsent("k", "second", time.Minute))

	entry, _ := s.Get("k")
	assert.Equal(t, "first", entry.Value)
}

func TestUpdatePreservesExpiry(t *testing.T) {
	s := New[string]()
	defer s.Close()

	require.NoError(t, s.Insert("k", "v1", time.Hour))
	original, ok := s.Get("k")
	require.True(t, ok)

	require.NoError(t, s.Update("k", "v2", original.Exp))

	updated, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", updated.Value)
	assert.Equal(t, original.Exp, updated.Exp)
}

func TestRemove(t *testing.T) {
	s := New[string]()
	defer s.Close()

	require.NoError(t, s.Insert("k", "v", time.Minute))

	entry, ok := s.Remove("k")
	require.True(t, ok)
	assert.Equal(t, "v", entry.Value)

	_, ok = s.Get("k")
	assert.False(t, ok)

	_, ok = s.Remove("k")
	assert.False(t, ok)
}

func TestSweeperExpiresEntries(t *testing.T) {
	s := NewWithInterval[string](10 * time.Millisecond)
	defer s.Close()

	require.NoError(t, s.Insert("short", "v", 30*time.Millisecond))
	require.NoError(t, s.Insert("long", "v", time.Hour))

	assert.Eventually(t, func() bool {
		_, ok := s.Get("short")
		return !ok
	}, time.Second, 10*time.Millisecond, "short-lived entry should be swept")

	_, ok := s.Get("long")
	assert.True(t, ok, "live entry must never be removed")
}

func TestCountPrefix(t *testing.T) {
	s := New[int]()
	defer s.Close()

	for i := range 5 {
		require.NoError(t, s.Insert(fmt.Sprintf("abc:%012d", i), i, time.Minute))
	}
	require.NoError(t, s.Insert("xyz:000000000000", 9, time.Minute))

	assert.Equal(t, 5, s.CountPrefix("abc:", 0))
	assert.Equal(t, 3, s.CountPrefix("abc:", 3), "early exit at limit")
	assert.Equal(t, 0, s.CountPrefix("nope:", 0))
}

func TestLen(t *testing.T) {
	s := New[int]()
	defer s.Close()

	assert.Equal(t, 0, s.Len())
	require.NoError(t, s.Insert("a", 1, time.Minute))
	require.NoError(t, s.Insert("b", 2, time.Minute))
	assert.Equal(t, 2, s.Len())
}

func TestCloseIdempotent(t *testing.T) {
	s := New[int]()
	s.Close()
	s.Close()
}

func TestConcurrentAccess(t *testing.T) {
	s := New[int]()
	defer s.Close()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("w%d:%d", n, j)
				_ = s.Insert(key, j, time.Minute)
				s.Get(key)
				s.CountPrefix(fmt.Sprintf("w%d:", n), 0)
				if j%2 == 0 {
					s.Remove(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8*50, s.Len())
}
