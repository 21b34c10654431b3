package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	got, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), got)

	require.NoError(t, s.Set(ctx, "k", []byte("v2")))
	got, _, _ = s.Get(ctx, "k")
	assert.Equal(t, []byte("v2"), got)
}

func TestMemoryCopiesValues(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'X'

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestFileRoundTrip(t *testing.T) {
	s, err := NewFile(t.TempDir(), false)
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "workspace.applications", []byte(`[{"uuid":"A"}]`)))
	got, found, err := s.Get(ctx, "workspace.applications")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`[{"uuid":"A"}]`), got)
}

func TestFileCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir, true)
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte(`[{"uuid":"A","layout":{"dimension":{"height":400,"width":400}}}]`)
	require.NoError(t, s.Set(ctx, "k", payload))

	got, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload, got)

	// On-disk bytes are not the plain payload.
	raw, err := os.ReadFile(filepath.Join(dir, "k.store"))
	require.NoError(t, err)
	assert.NotEqual(t, payload, raw)
}

func TestFileKeyCannotEscapeRoot(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir, false)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "../outside", []byte("v")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".._outside.store", entries[0].Name())

	got, found, err := s.Get(ctx, "../outside")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v"), got)
}

func TestFileSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFile(dir, false)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", []byte("persisted")))

	s2, err := NewFile(dir, false)
	require.NoError(t, err)
	got, found, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("persisted"), got)
}
