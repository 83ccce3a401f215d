package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testgen/api/internal/models"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, mr
}

func TestRedis_SetGet(t *testing.T) {
	r, _ := newTestRedis(t)
	ctx := context.Background()

	cov := 80
	want := &models.GenerationResult{Tests: "def test_a(): pass", Coverage: &cov, Status: models.StatusSuccess}
	require.NoError(t, r.Set(ctx, "k", want))

	got, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Tests, got.Tests)
	require.NotNil(t, got.Coverage)
	assert.Equal(t, 80, *got.Coverage)
}

func TestRedis_Miss(t *testing.T) {
	r, _ := newTestRedis(t)

	got, ok, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedis_Expires(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", &models.GenerationResult{Tests: "x", Status: models.StatusSuccess}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_CorruptEntry(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, mr.Set("k", "not json"))

	_, ok, err := r.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "://nope", time.Minute)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	a := models.GenerationRequest{Code: "x", Language: "python", Framework: "pytest"}
	b := models.GenerationRequest{Code: "x", Language: "python", Framework: "unittest"}

	assert.Equal(t, Key(a, "gpt-4"), Key(a, "gpt-4"))
	assert.NotEqual(t, Key(a, "gpt-4"), Key(b, "gpt-4"))
	assert.NotEqual(t, Key(a, "gpt-4"), Key(a, "gpt-4o"))
	assert.Contains(t, Key(a, "gpt-4"), keyPrefix)
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &models.GenerationResult{}))
	got, ok, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.Ping(ctx))
}
