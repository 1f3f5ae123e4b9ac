package merge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

type stubMediaTool struct {
	clipErr      error
	concatErr    error
	titleCardErr error

	extractedClips []string
	concatInputs   []string
}

func (m *stubMediaTool) ExtractClip(ctx context.Context, srcPath string, start, end float64, outputPath string) error {
	if m.clipErr != nil {
		return m.clipErr
	}
	m.extractedClips = append(m.extractedClips, outputPath)
	return os.WriteFile(outputPath, []byte("clip"), 0o644)
}

func (m *stubMediaTool) Concat(ctx context.Context, inputPaths []string, outputPath string) error {
	m.concatInputs = inputPaths
	if m.concatErr != nil {
		// 失敗前に部分的な出力が残るケースを再現する
		_ = os.WriteFile(outputPath, []byte("partial"), 0o644)
		return m.concatErr
	}
	return os.WriteFile(outputPath, []byte("merged"), 0o644)
}

func (m *stubMediaTool) TitleCard(ctx context.Context, title string, outputPath string) error {
	if m.titleCardErr != nil {
		return m.titleCardErr
	}
	return os.WriteFile(outputPath, []byte("card"), 0o644)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{AddSource: false}))
}

func testSourceVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644))
	return path
}

func singleGroup(t *testing.T, segments ...scene.Interval) []*SegmentGroup {
	t.Helper()
	return []*SegmentGroup{{
		VideoID:    uuid.New(),
		VideoTitle: "講義A",
		VideoPath:  testSourceVideo(t),
		Segments:   segments,
	}}
}

func listMergedOutputs(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var outputs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "merged_") {
			outputs = append(outputs, e.Name())
		}
	}
	return outputs
}

func TestAssembler_Assemble(t *testing.T) {
	media := &stubMediaTool{}
	outputDir := t.TempDir()

	var statuses []MergeStatus
	assembler := NewAssembler(media, outputDir,
		WithAssemblerLogger(testLogger()),
		WithStatusCallback(func(s MergeStatus) { statuses = append(statuses, s) }),
	)

	groups := singleGroup(t, scene.Interval{Start: 10, End: 30}, scene.Interval{Start: 50, End: 60})

	result, err := assembler.Assemble(context.Background(), "explain architecture", groups)
	require.NoError(t, err)

	assert.Equal(t, MergeStatusDone, result.Status)
	assert.Equal(t, []MergeStatus{
		MergeStatusPending,
		MergeStatusExtracting,
		MergeStatusConcatenating,
		MergeStatusDone,
	}, statuses)

	assert.Equal(t, 2, result.SegmentCount)
	assert.InDelta(t, 30.0, result.TotalDuration, 1e-9)

	// タイトルカード1つ + クリップ2つが結合される
	assert.Len(t, media.concatInputs, 3)
	assert.Len(t, media.extractedClips, 2)

	// 出力ファイルが存在し、作業ディレクトリは残らない
	_, statErr := os.Stat(result.OutputPath)
	require.NoError(t, statErr)
	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, e.IsDir(), "temp dir should be removed: %s", e.Name())
	}
}

func TestAssembler_TitleCardFailureIsNotFatal(t *testing.T) {
	media := &stubMediaTool{titleCardErr: errors.New("drawtext unavailable")}
	assembler := NewAssembler(media, t.TempDir(), WithAssemblerLogger(testLogger()))

	groups := singleGroup(t, scene.Interval{Start: 0, End: 10})

	result, err := assembler.Assemble(context.Background(), "q", groups)
	require.NoError(t, err)

	assert.Equal(t, MergeStatusDone, result.Status)
	assert.Len(t, media.concatInputs, 1) // クリップのみ
}

func TestAssembler_TitleCardsDisabled(t *testing.T) {
	media := &stubMediaTool{}
	assembler := NewAssembler(media, t.TempDir(),
		WithAssemblerLogger(testLogger()),
		WithTitleCards(false),
	)

	groups := singleGroup(t, scene.Interval{Start: 0, End: 10})

	_, err := assembler.Assemble(context.Background(), "q", groups)
	require.NoError(t, err)
	assert.Len(t, media.concatInputs, 1)
}

func TestAssembler_ClipFailureMarksFailed(t *testing.T) {
	media := &stubMediaTool{clipErr: errors.New("ffmpeg exited with code 1")}
	outputDir := t.TempDir()
	assembler := NewAssembler(media, outputDir, WithAssemblerLogger(testLogger()))

	groups := singleGroup(t, scene.Interval{Start: 0, End: 10})

	result, err := assembler.Assemble(context.Background(), "q", groups)
	require.Error(t, err)

	assert.Equal(t, MergeStatusFailed, result.Status)
	assert.Empty(t, listMergedOutputs(t, outputDir))
}

func TestAssembler_ConcatFailureRemovesPartialOutput(t *testing.T) {
	media := &stubMediaTool{concatErr: errors.New("concat demuxer failed")}
	outputDir := t.TempDir()
	assembler := NewAssembler(media, outputDir, WithAssemblerLogger(testLogger()))

	groups := singleGroup(t, scene.Interval{Start: 0, End: 10})

	result, err := assembler.Assemble(context.Background(), "q", groups)
	require.Error(t, err)

	assert.Equal(t, MergeStatusFailed, result.Status)
	assert.Empty(t, listMergedOutputs(t, outputDir))
}

func TestAssembler_MissingVideoGroupDropped(t *testing.T) {
	media := &stubMediaTool{}
	assembler := NewAssembler(media, t.TempDir(), WithAssemblerLogger(testLogger()))

	missing := &SegmentGroup{
		VideoID:    uuid.New(),
		VideoTitle: "消えた講義",
		VideoPath:  "/nonexistent/video.mp4",
		Segments:   []scene.Interval{{Start: 0, End: 10}},
	}
	groups := append([]*SegmentGroup{missing}, singleGroup(t, scene.Interval{Start: 0, End: 10})...)

	result, err := assembler.Assemble(context.Background(), "q", groups)
	require.NoError(t, err)

	assert.Equal(t, MergeStatusDone, result.Status)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "講義A", result.Groups[0].VideoTitle)
}

func TestAssembler_AllVideosMissingFails(t *testing.T) {
	assembler := NewAssembler(&stubMediaTool{}, t.TempDir(), WithAssemblerLogger(testLogger()))

	groups := []*SegmentGroup{{
		VideoID:   uuid.New(),
		VideoPath: "/nonexistent/video.mp4",
		Segments:  []scene.Interval{{Start: 0, End: 10}},
	}}

	result, err := assembler.Assemble(context.Background(), "q", groups)
	require.ErrorIs(t, err, ErrNoPlayableVideos)
	assert.Equal(t, MergeStatusFailed, result.Status)
}
