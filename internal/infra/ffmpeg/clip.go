package ffmpeg

import (
	"context"
	"fmt"

	"github.com/Bharath-2656/video-analytics/internal/core/merge"
)

var _ merge.MediaTool = (*Executor)(nil)

// normalizeFilter は全パーツの解像度を揃えるフィルタ
// 結合時のストリームパラメータ不一致を避けるため、切り出しと
// タイトルカードは同一の解像度・コーデックへ正規化する
const normalizeFilter = "scale=1280:720:force_original_aspect_ratio=decrease," +
	"pad=1280:720:(ow-iw)/2:(oh-ih)/2,fps=30"

// ExtractClip は動画の指定区間を再エンコードして切り出す
//
// シーン境界はキーフレームと無関係なため、コーデックコピーではなく
// 再エンコードで正確な境界の切り出しを行う
func (e *Executor) ExtractClip(ctx context.Context, srcPath string, start, end float64, outputPath string) error {
	duration := end - start
	if duration <= 0 {
		return fmt.Errorf("invalid clip duration: end must be after start")
	}

	e.logger.Info("区間を切り出し",
		"input", srcPath,
		"start", start,
		"duration", duration,
	)

	if err := e.run(ctx,
		"-ss", formatSeconds(start),
		"-i", srcPath,
		"-t", formatSeconds(duration),
		"-vf", normalizeFilter,
		"-c:v", DefaultVideoCodec,
		"-preset", DefaultPreset,
		"-crf", fmt.Sprintf("%d", DefaultCRF),
		"-c:a", DefaultAudioCodec,
		"-avoid_negative_ts", "make_zero",
		outputPath,
	); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}

	return nil
}
