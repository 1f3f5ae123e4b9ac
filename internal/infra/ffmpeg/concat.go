package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Concat は複数の動画ファイルを concat demuxer で順に結合する
// 入力は ExtractClip / TitleCard で正規化済みの前提でコーデックコピーする
func (e *Executor) Concat(ctx context.Context, inputPaths []string, outputPath string) error {
	if len(inputPaths) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info("動画を結合",
		"inputs", len(inputPaths),
		"output", outputPath,
	)

	concatFile, err := e.createConcatFile(inputPaths)
	if err != nil {
		return fmt.Errorf("failed to create concat file: %w", err)
	}
	defer os.Remove(concatFile)

	if err := e.run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", concatFile,
		"-c", "copy",
		outputPath,
	); err != nil {
		return fmt.Errorf("concat failed: %w", err)
	}

	return nil
}

// createConcatFile は concat demuxer 用の入力リストファイルを生成する
func (e *Executor) createConcatFile(inputs []string) (string, error) {
	tmpFile, err := os.CreateTemp("", "video-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	for _, input := range inputs {
		absPath, err := filepath.Abs(input)
		if err != nil {
			return "", err
		}
		if _, err := fmt.Fprintf(tmpFile, "file '%s'\n", absPath); err != nil {
			return "", err
		}
	}

	return tmpFile.Name(), nil
}
