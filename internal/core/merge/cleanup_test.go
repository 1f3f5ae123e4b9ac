package merge

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAgedFile(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestCleanupMergedVideos_RemovesExpiredOnly(t *testing.T) {
	dir := t.TempDir()
	expired := writeAgedFile(t, dir, "merged_old_1segments_10.0s_abcd1234.mp4", 48*time.Hour)
	fresh := writeAgedFile(t, dir, "merged_new_1segments_10.0s_ef012345.mp4", time.Hour)

	result, err := CleanupMergedVideos(dir, 24*time.Hour, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 2, result.ScannedFiles)
	assert.NoFileExists(t, expired)
	assert.FileExists(t, fresh)
}

func TestCleanupMergedVideos_IgnoresSourceVideos(t *testing.T) {
	dir := t.TempDir()
	source := writeAgedFile(t, dir, "lecture.mp4", 72*time.Hour)

	result, err := CleanupMergedVideos(dir, 24*time.Hour, testLogger())
	require.NoError(t, err)

	assert.Zero(t, result.Removed)
	assert.Zero(t, result.ScannedFiles)
	assert.FileExists(t, source)
}

func TestCleanupMergedVideos_MissingDirIsNotAnError(t *testing.T) {
	result, err := CleanupMergedVideos(filepath.Join(t.TempDir(), "nonexistent"), 24*time.Hour, testLogger())
	require.NoError(t, err)
	assert.Zero(t, result.Removed)
}

func TestCleanupMergedVideos_ZeroMaxAgeUsesDefault(t *testing.T) {
	dir := t.TempDir()
	recent := writeAgedFile(t, dir, "merged_q_1segments_5.0s_01234567.mp4", time.Hour)

	result, err := CleanupMergedVideos(dir, 0, testLogger())
	require.NoError(t, err)

	// デフォルトの24時間より新しいので残る
	assert.Zero(t, result.Removed)
	assert.FileExists(t, recent)
}
