package merge

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultMaxAge は結合動画を保持するデフォルト期間
	DefaultMaxAge = 24 * time.Hour

	mergedPrefix = "merged_"
)

// CleanupResult は古い結合動画の削除結果を表す
type CleanupResult struct {
	Removed      int
	FreedBytes   int64
	FailedPaths  []string
	ScannedFiles int
}

// CleanupMergedVideos は保持期間を過ぎた結合動画を出力ディレクトリから削除する
//
// 対象は merged_ プレフィックスを持つ .mp4 ファイルのみで、
// 取り込み済みのソース動画には触れない。maxAge が0以下の場合は
// デフォルトの保持期間を使う
func CleanupMergedVideos(outputDir string, maxAge time.Duration, logger *slog.Logger) (*CleanupResult, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &CleanupResult{}, nil
		}
		return nil, err
	}

	cutoff := time.Now().Add(-maxAge)
	result := &CleanupResult{}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, mergedPrefix) || !strings.HasSuffix(name, ".mp4") {
			continue
		}
		result.ScannedFiles++

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(outputDir, name)
		if err := os.Remove(path); err != nil {
			logger.Warn("結合動画の削除に失敗",
				"path", path,
				"error", err,
			)
			result.FailedPaths = append(result.FailedPaths, path)
			continue
		}

		result.Removed++
		result.FreedBytes += info.Size()
		logger.Info("期限切れの結合動画を削除",
			"path", path,
			"age", time.Since(info.ModTime()),
		)
	}

	return result, nil
}
