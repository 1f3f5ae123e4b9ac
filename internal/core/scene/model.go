package scene

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"
)

// Fingerprint は1秒ごとにサンプリングしたフレームの知覚ハッシュ（pHash）
// タイムスタンプは動画先頭からの秒数で、単調増加する
type Fingerprint struct {
	Timestamp float64
	Hash      uint64
}

// Distance は2つのFingerprint間のハミング距離を返す
// 同一フレームは0、値が大きいほど視覚的な差が大きい
func (f Fingerprint) Distance(other Fingerprint) int {
	return bits.OnesCount64(f.Hash ^ other.Hash)
}

// Transition は確定したシーン遷移点を表す
// FrameFile は遷移フレームの代表画像ファイル名（Scene-%03d.jpg 形式）
type Transition struct {
	Timestamp float64
	FrameFile string
	Distance  int
}

// Interval はシーンの半開区間 [Start, End) を表す
type Interval struct {
	Start float64
	End   float64
}

// Duration は区間の長さ（秒）を返す
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// TranscriptSegment は外部文字起こしエンジンが返す時刻付きテキスト区間
// [Start, End) の半開区間で、無音部分のギャップは許容される
type TranscriptSegment struct {
	Start float64
	End   float64
	Text  string
}

// Scene は動画内の1シーンを表すドメインの基本単位
// 同一動画内のシーンは連続・非重複で [0, duration) を隙間なく被覆する
type Scene struct {
	ID                 uuid.UUID
	VideoID            uuid.UUID
	Number             int // 動画内の1始まり連番
	StartTime          float64
	EndTime            float64
	StartTimeFormatted string
	EndTimeFormatted   string
	Transcript         string
	VisualContext      *string
	CombinedContext    string
	Embedding          []float32
	ImagePath          *string
}

// FormatTime は秒数を HH:MM:SS 形式に変換する
func FormatTime(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
