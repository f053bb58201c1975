// Copyright The Cloud Custodian Authors.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadWriteRoundTrip verifies a written entry can be read back under
// the same key.
func TestReadWriteRoundTrip(t *testing.T) {
	t.Setenv("C7N_ORG_CACHE_DIR", t.TempDir())

	require.NoError(t, Write([]string{"default"}, "accounts", []byte(`[{"id":"111111111111"}]`)))

	entry, ok := Read([]string{"default"}, "accounts", time.Hour)
	require.True(t, ok)
	assert.Equal(t, "accounts", entry.Key)
	assert.Equal(t, `[{"id":"111111111111"}]`, string(entry.Data))
	assert.NotEqual(t, entry.Key, entry.EncodedKey)
}

// TestReadMiss verifies a missing entry reports false.
func TestReadMiss(t *testing.T) {
	t.Setenv("C7N_ORG_CACHE_DIR", t.TempDir())

	_, ok := Read([]string{"default"}, "nonesuch", time.Hour)
	assert.False(t, ok)
}

// TestReadExpired verifies an entry older than maxAge is treated as a miss.
func TestReadExpired(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("C7N_ORG_CACHE_DIR", dir)

	require.NoError(t, Write([]string{"default"}, "accounts", []byte("data")))

	// Backdate the entry past the TTL.
	old := time.Now().Add(-2 * time.Hour)
	entry, ok := Read([]string{"default"}, "accounts", 0)
	require.True(t, ok)
	require.NoError(t, os.Chtimes(entry.Path, old, old))

	_, ok = Read([]string{"default"}, "accounts", time.Hour)
	assert.False(t, ok)

	// A zero maxAge disables the freshness cut.
	_, ok = Read([]string{"default"}, "accounts", 0)
	assert.True(t, ok)
}

// TestDisabled verifies C7N_ORG_CACHE=0 turns reads and writes into no-ops.
func TestDisabled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("C7N_ORG_CACHE_DIR", dir)
	t.Setenv("C7N_ORG_CACHE", "0")

	require.NoError(t, Write([]string{"default"}, "accounts", []byte("data")))
	_, ok := Read([]string{"default"}, "accounts", time.Hour)
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestEnabled verifies the enable/disable env semantics.
func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		expected bool
	}{
		{name: "unset", expected: true},
		{name: "empty", set: true, value: "", expected: true},
		{name: "zero", set: true, value: "0", expected: false},
		{name: "false", set: true, value: "false", expected: false},
		{name: "one", set: true, value: "1", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("C7N_ORG_CACHE", tt.value)
			} else {
				t.Setenv("C7N_ORG_CACHE", "")
				os.Unsetenv("C7N_ORG_CACHE")
			}
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

// TestPurge verifies old entries are removed and fresh ones kept.
func TestPurge(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("C7N_ORG_CACHE_DIR", dir)

	require.NoError(t, Write([]string{"default"}, "stale", []byte("old")))
	require.NoError(t, Write([]string{"default"}, "fresh", []byte("new")))

	stale, ok := Read([]string{"default"}, "stale", 0)
	require.True(t, ok)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale.Path, old, old))

	require.NoError(t, Purge(24))

	_, ok = Read([]string{"default"}, "stale", 0)
	assert.False(t, ok)
	_, ok = Read([]string{"default"}, "fresh", 0)
	assert.True(t, ok)
}

// TestDirOverride verifies the cache dir override takes precedence over the
// user cache directory.
func TestDirOverride(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom")
	t.Setenv("C7N_ORG_CACHE_DIR", custom)

	dir, ok := Dir()
	require.True(t, ok)
	assert.Equal(t, custom, dir)
}
