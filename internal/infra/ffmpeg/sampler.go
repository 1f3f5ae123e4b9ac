package ffmpeg

import (
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"

	"github.com/corona10/goimagehash"

	"github.com/Bharath-2656/video-analytics/internal/core/ingestion"
	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

var _ ingestion.FrameSampler = (*Executor)(nil)

// SampleFingerprints は動画を1秒間隔でサンプリングし、
// 各フレームの知覚ハッシュ（pHash）を時系列で返す
func (e *Executor) SampleFingerprints(ctx context.Context, videoPath string) ([]scene.Fingerprint, error) {
	tempDir, err := os.MkdirTemp("", "frame-samples-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// fps=1 で毎秒1フレームをJPEGとして吐き出す
	pattern := filepath.Join(tempDir, "frame_%06d.jpg")
	if err := e.run(ctx,
		"-i", videoPath,
		"-vf", "fps=1",
		"-q:v", "2",
		pattern,
	); err != nil {
		return nil, fmt.Errorf("frame sampling failed: %w", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sampled frames: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	fingerprints := make([]scene.Fingerprint, 0, len(names))
	for i, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		hash, err := e.hashFrame(filepath.Join(tempDir, name))
		if err != nil {
			e.logger.Warn("フレームのハッシュ計算に失敗。スキップ",
				"frame", name,
				"error", err,
			)
			continue
		}

		fingerprints = append(fingerprints, scene.Fingerprint{
			Timestamp: float64(i),
			Hash:      hash,
		})
	}

	e.logger.Debug("フレームサンプリングが完了",
		"videoPath", videoPath,
		"sampleCount", len(fingerprints),
	)

	return fingerprints, nil
}

// hashFrame はJPEGフレームの知覚ハッシュを計算する
func (e *Executor) hashFrame(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	img, err := jpeg.Decode(f)
	if err != nil {
		return 0, fmt.Errorf("failed to decode frame: %w", err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, fmt.Errorf("failed to compute perception hash: %w", err)
	}

	return hash.GetHash(), nil
}

// SaveFrame は指定時刻のフレームを1枚のJPEGとして保存する
func (e *Executor) SaveFrame(ctx context.Context, videoPath string, timestamp float64, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	if err := e.run(ctx,
		"-ss", formatSeconds(timestamp),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		outputPath,
	); err != nil {
		return fmt.Errorf("frame capture failed at %.1fs: %w", timestamp, err)
	}

	return nil
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}
