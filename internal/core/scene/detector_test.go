package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplesWithDistances は指定した連続距離列を持つFingerprint列を生成する
// distances[i] は samples[i] と samples[i+1] の間のハミング距離になる
func samplesWithDistances(t *testing.T, distances []int) []Fingerprint {
	t.Helper()

	samples := []Fingerprint{{Timestamp: 0, Hash: 0}}
	var hash uint64
	var usedBits int

	for i, d := range distances {
		require.LessOrEqual(t, usedBits+d, 64, "合計距離が64bitを超えています")
		// 直前のハッシュから d ビットだけ反転させる
		for j := 0; j < d; j++ {
			hash ^= 1 << uint(usedBits+j)
		}
		usedBits += d
		samples = append(samples, Fingerprint{Timestamp: float64(i + 1), Hash: hash})
	}

	return samples
}

func TestSamplesWithDistances(t *testing.T) {
	samples := samplesWithDistances(t, []int{2, 2, 9, 2, 2})
	require.Len(t, samples, 6)
	for i, want := range []int{2, 2, 9, 2, 2} {
		assert.Equal(t, want, samples[i].Distance(samples[i+1]))
	}
}

func TestDetectTransitions_SingleCleanCut(t *testing.T) {
	// 距離列 [2,2,9,2,2]、しきい値5: 9の位置だけが確定遷移になる
	samples := samplesWithDistances(t, []int{2, 2, 9, 2, 2})

	transitions := DetectTransitions(samples, 5)

	require.Len(t, transitions, 1)
	assert.Equal(t, 3.0, transitions[0].Timestamp)
	assert.Equal(t, 9, transitions[0].Distance)
	assert.Equal(t, "Scene-001.jpg", transitions[0].FrameFile)
}

func TestDetectTransitions_RejectsAnimationRun(t *testing.T) {
	// 距離列 [9,9,9,2]、しきい値5: 先頭の9は前方参照不可のため確定、
	// 2番目以降の9は直前のホップもしきい値超えのため棄却される
	samples := samplesWithDistances(t, []int{9, 9, 9, 2})

	transitions := DetectTransitions(samples, 5)

	require.Len(t, transitions, 1)
	assert.Equal(t, 1.0, transitions[0].Timestamp)
}

func TestDetectTransitions_TooFewSamples(t *testing.T) {
	assert.Empty(t, DetectTransitions(nil, 5))
	assert.Empty(t, DetectTransitions([]Fingerprint{{Timestamp: 0}}, 5))
}

func TestDetectTransitions_NoChanges(t *testing.T) {
	samples := samplesWithDistances(t, []int{1, 0, 2, 1})
	assert.Empty(t, DetectTransitions(samples, 5))
}

func TestDetectTransitions_SequentialFrameFiles(t *testing.T) {
	// 十分に離れた2つのカット
	samples := samplesWithDistances(t, []int{8, 0, 0, 8, 0})

	transitions := DetectTransitions(samples, 5)

	require.Len(t, transitions, 2)
	assert.Equal(t, "Scene-001.jpg", transitions[0].FrameFile)
	assert.Equal(t, "Scene-002.jpg", transitions[1].FrameFile)
}

func TestDetectTransitions_DeterministicForSameInput(t *testing.T) {
	samples := samplesWithDistances(t, []int{2, 9, 2, 8, 2})

	first := DetectTransitions(samples, 5)
	second := DetectTransitions(samples, 5)

	assert.Equal(t, first, second)
}
