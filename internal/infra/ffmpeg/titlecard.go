package ffmpeg

import (
	"context"
	"fmt"
	"strings"
)

const (
	// titleCardDuration はタイトルカードの表示秒数
	titleCardDuration = 3
)

// TitleCard は黒背景に動画タイトルを表示する短いカードを生成する
// 結合時に音声ストリームが途切れないよう無音トラックを付与する
func (e *Executor) TitleCard(ctx context.Context, title string, outputPath string) error {
	drawtext := fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=48:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(title),
	)

	if err := e.run(ctx,
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:size=1280x720:rate=30:duration=%d", titleCardDuration),
		"-f", "lavfi",
		"-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		"-vf", drawtext,
		"-t", fmt.Sprintf("%d", titleCardDuration),
		"-c:v", DefaultVideoCodec,
		"-preset", DefaultPreset,
		"-crf", fmt.Sprintf("%d", DefaultCRF),
		"-c:a", DefaultAudioCodec,
		"-shortest",
		outputPath,
	); err != nil {
		return fmt.Errorf("title card generation failed: %w", err)
	}

	return nil
}

// escapeDrawtext は drawtext フィルタの特殊文字をエスケープする
func escapeDrawtext(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(s)
}
