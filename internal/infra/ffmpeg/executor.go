package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

const (
	// DefaultVideoCodec は切り出し・結合に使う映像コーデック
	DefaultVideoCodec = "libx264"
	// DefaultAudioCodec は切り出し・結合に使う音声コーデック
	DefaultAudioCodec = "aac"
	// DefaultPreset はエンコード速度と圧縮率のバランス設定
	DefaultPreset = "fast"
	// DefaultCRF はエンコード品質（低いほど高品質）
	DefaultCRF = 23

	// stderrTailLimit はエラーメッセージに含めるstderrの最大バイト数
	stderrTailLimit = 2048
)

// Executor はffmpeg/ffprobeのコマンド実行を担う
type Executor struct {
	ffmpegPath  string
	ffprobePath string
	logger      *slog.Logger
}

// NewExecutor は新しいExecutorを作成する
// ffmpegとffprobeがPATH上に見つからない場合はエラーを返す
func NewExecutor(logger *slog.Logger) (*Executor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logger.With("component", "ffmpeg"),
	}, nil
}

// run はffmpegを実行し、失敗時はstderrの末尾をエラーに含める
func (e *Executor) run(ctx context.Context, args ...string) error {
	fullArgs := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)

	e.logger.Debug("ffmpegを実行",
		"args", strings.Join(fullArgs, " "),
	)

	cmd := exec.CommandContext(ctx, e.ffmpegPath, fullArgs...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w: %s", err, stderrTail(stderr.Bytes()))
	}

	return nil
}

// runProbe はffprobeを実行して標準出力を返す
func (e *Executor) runProbe(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, stderrTail(stderr.Bytes()))
	}

	return stdout.Bytes(), nil
}

func stderrTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > stderrTailLimit {
		s = s[len(s)-stderrTailLimit:]
	}
	return s
}
