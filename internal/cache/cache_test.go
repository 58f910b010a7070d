package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGet(t *testing.T) {
	c := New(true)
	etag := c.Set("districts", []byte(`["Medeu"]`), time.Minute)
	assert.NotEmpty(t, etag)

	data, gotETag, ok := c.Get("districts")
	assert.True(t, ok)
	assert.Equal(t, []byte(`["Medeu"]`), data)
	assert.Equal(t, etag, gotETag)
}

func TestCache_Expiry(t *testing.T) {
	c := New(true)
	c.Set("forecast", []byte(`{}`), -time.Second)
	_, _, ok := c.Get("forecast")
	assert.False(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	assert.NotEmpty(t, etag, "disabled cache still computes ETags")
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := New(true)
	c.Set("districts", []byte(`[]`), time.Minute)
	c.Invalidate("districts")
	_, _, ok := c.Get("districts")
	assert.False(t, ok)
}

func TestCache_Snapshot(t *testing.T) {
	c := New(true)
	c.Set("districts", []byte(`[]`), time.Minute)
	c.Set("forecast", []byte(`{}`), -time.Second)

	s := c.Snapshot()
	assert.True(t, s.Enabled)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Expired)

	c.sweep(time.Now())
	assert.Equal(t, 1, c.Snapshot().Total)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}
