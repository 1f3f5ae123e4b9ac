package ffmpeg

import (
	"context"
	"fmt"
)

// ExtractAudio は動画から音声トラックをMP3として抽出する
// 文字起こしAPIへの送信用で、サイズを抑えるため中品質でエンコードする
func (e *Executor) ExtractAudio(ctx context.Context, videoPath string, outputPath string) error {
	e.logger.Info("音声を抽出",
		"input", videoPath,
		"output", outputPath,
	)

	if err := e.run(ctx,
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "4",
		outputPath,
	); err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}

	return nil
}
