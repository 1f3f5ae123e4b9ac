package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCaptioner struct {
	mu       sync.Mutex
	failFor  string
	inflight int
	maxSeen  int
}

func (c *recordingCaptioner) Caption(ctx context.Context, imagePath string) (string, error) {
	c.mu.Lock()
	c.inflight++
	if c.inflight > c.maxSeen {
		c.maxSeen = c.inflight
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
	}()

	if c.failFor != "" && strings.Contains(imagePath, c.failFor) {
		return "", errors.New("caption failed")
	}
	return "caption of " + imagePath, nil
}

func TestCaptionPipeline_PreservesOrder(t *testing.T) {
	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("frames/Scene-%03d.jpg", i+1)
	}

	pipeline := NewCaptionPipeline(&recordingCaptioner{}, DefaultPipelineConfig(), testLogger())

	captions, failed := pipeline.CaptionFrames(context.Background(), paths)

	assert.Zero(t, failed)
	require.Len(t, captions, len(paths))
	for i, path := range paths {
		assert.Equal(t, "caption of "+path, captions[i])
	}
}

func TestCaptionPipeline_FailedFramesYieldEmptyCaption(t *testing.T) {
	paths := []string{"frames/a.jpg", "frames/b.jpg", "frames/c.jpg"}
	pipeline := NewCaptionPipeline(&recordingCaptioner{failFor: "b.jpg"}, DefaultPipelineConfig(), testLogger())

	captions, failed := pipeline.CaptionFrames(context.Background(), paths)

	assert.Equal(t, 1, failed)
	assert.Equal(t, "caption of frames/a.jpg", captions[0])
	assert.Equal(t, "", captions[1])
	assert.Equal(t, "caption of frames/c.jpg", captions[2])
}

func TestCaptionPipeline_SkipsMissingFrames(t *testing.T) {
	paths := []string{"frames/a.jpg", "", "frames/c.jpg"}
	pipeline := NewCaptionPipeline(&recordingCaptioner{}, DefaultPipelineConfig(), testLogger())

	captions, failed := pipeline.CaptionFrames(context.Background(), paths)

	assert.Zero(t, failed)
	assert.Equal(t, "", captions[1])
}

func TestCaptionPipeline_WorkerCountBoundsConcurrency(t *testing.T) {
	captioner := &recordingCaptioner{}
	cfg := &PipelineConfig{CaptionWorkerCount: 2, EmbeddingBatchSize: DefaultEmbeddingBatchSize}
	pipeline := NewCaptionPipeline(captioner, cfg, testLogger())

	paths := make([]string, 30)
	for i := range paths {
		paths[i] = fmt.Sprintf("frames/Scene-%03d.jpg", i+1)
	}

	_, failed := pipeline.CaptionFrames(context.Background(), paths)

	assert.Zero(t, failed)
	assert.LessOrEqual(t, captioner.maxSeen, 2)
}
