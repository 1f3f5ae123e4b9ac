package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSceneList_NoTransitions(t *testing.T) {
	scenes := BuildSceneList(nil, 120)

	require.Len(t, scenes, 1)
	assert.Equal(t, Interval{Start: 0, End: 120}, scenes[0])
}

func TestBuildSceneList_SingleTransition(t *testing.T) {
	scenes := BuildSceneList(transitionsAt(30), 120)

	require.Len(t, scenes, 1)
	assert.Equal(t, Interval{Start: 30, End: 120}, scenes[0])
}

func TestBuildSceneList_PairsAndTrailingScene(t *testing.T) {
	scenes := BuildSceneList(transitionsAt(0, 40, 90), 120)

	require.Len(t, scenes, 3)
	assert.Equal(t, Interval{Start: 0, End: 40}, scenes[0])
	assert.Equal(t, Interval{Start: 40, End: 90}, scenes[1])
	assert.Equal(t, Interval{Start: 90, End: 120}, scenes[2])
}

func TestBuildSceneList_LastTransitionAtEnd(t *testing.T) {
	// 最後の遷移が動画末尾と一致する場合は末尾シーンを追加しない
	scenes := BuildSceneList(transitionsAt(0, 60, 120), 120)

	require.Len(t, scenes, 2)
	assert.Equal(t, Interval{Start: 60, End: 120}, scenes[1])
}

func TestBuildSceneList_Contiguous(t *testing.T) {
	// 隣接シーンは隙間なく連続し、開始時刻は昇順になる
	scenes := BuildSceneList(transitionsAt(0, 12.5, 33.1, 47, 95.2), 130)

	require.Greater(t, len(scenes), 1)
	for i := 0; i < len(scenes)-1; i++ {
		assert.Equal(t, scenes[i].End, scenes[i+1].Start)
		assert.Less(t, scenes[i].Start, scenes[i+1].Start)
	}
	assert.Equal(t, 0.0, scenes[0].Start)
	assert.Equal(t, 130.0, scenes[len(scenes)-1].End)
}

func TestAnchorTransitions_PrependsZero(t *testing.T) {
	anchored := AnchorTransitions(transitionsAt(15, 40))

	require.Len(t, anchored, 3)
	assert.Equal(t, 0.0, anchored[0].Timestamp)
	assert.Equal(t, "Scene-000.jpg", anchored[0].FrameFile)
	assert.Equal(t, 15.0, anchored[1].Timestamp)
}

func TestAnchorTransitions_AlreadyAnchored(t *testing.T) {
	transitions := transitionsAt(0, 40)
	assert.Equal(t, transitions, AnchorTransitions(transitions))
}

func TestAnchorTransitions_Empty(t *testing.T) {
	assert.Empty(t, AnchorTransitions(nil))
}
