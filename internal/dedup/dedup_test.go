package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobCachePersistsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	first := NewJobCache(dir)
	assert.False(t, first.IsSeen("https://jobins.jp/agent/job/detail/123"))

	first.Add([]string{
		"https://jobins.jp/agent/job/detail/123",
		"https://careerbank-jobsearch.com/jobs/456/",
	})
	assert.True(t, first.IsSeen("https://jobins.jp/agent/job/detail/123"))

	// a fresh instance reads the same file
	second := NewJobCache(dir)
	assert.True(t, second.IsSeen("https://jobins.jp/agent/job/detail/123"))
	assert.True(t, second.IsSeen("https://careerbank-jobsearch.com/jobs/456/"))
	assert.False(t, second.IsSeen("https://careerbank-jobsearch.com/jobs/789/"))
}

func TestJobCacheDropsExpiredEntries(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().UnixMilli()

	entries := []seenEntry{
		{URL: "https://example.com/fresh", Timestamp: now - 1000},
		{URL: "https://example.com/stale", Timestamp: now - thirtyDaysMs - 1000},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), data, 0644))

	cache := NewJobCache(dir)
	assert.True(t, cache.IsSeen("https://example.com/fresh"))
	assert.False(t, cache.IsSeen("https://example.com/stale"))
}

func TestJobCacheToleratesCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), []byte("not json"), 0644))

	cache := NewJobCache(dir)
	assert.False(t, cache.IsSeen("https://example.com/anything"))

	// still usable after a bad load
	cache.Add([]string{"https://example.com/anything"})
	assert.True(t, cache.IsSeen("https://example.com/anything"))
}
