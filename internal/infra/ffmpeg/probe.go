package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// probeResult はffprobeのJSON出力の構造に対応する
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

// ProbeDuration は動画ファイルの長さ（秒）を取得する
func (e *Executor) ProbeDuration(ctx context.Context, videoPath string) (float64, error) {
	if videoPath == "" {
		return 0, fmt.Errorf("file path is required")
	}

	output, err := e.runProbe(ctx,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		videoPath,
	)
	if err != nil {
		return 0, err
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}

	return duration, nil
}
