package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestCacheExpiry(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheDisabledIsNoop(t *testing.T) {
	c := New(false)
	c.Set("k", []byte("v"), time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheIgnoresEmptyKeyAndZeroTTL(t *testing.T) {
	c := New(true)
	c.Set("", []byte("v"), time.Minute)
	c.Set("k", []byte("v"), 0)
	assert.Equal(t, 0, c.Len())
}

func TestCacheDelete(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), time.Minute)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}
