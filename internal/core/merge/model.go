package merge

import (
	"github.com/google/uuid"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
)

// MergeStatus は結合処理のライフサイクル状態を表す
type MergeStatus string

const (
	MergeStatusPending       MergeStatus = "pending"
	MergeStatusExtracting    MergeStatus = "extracting"
	MergeStatusConcatenating MergeStatus = "concatenating"
	MergeStatusDone          MergeStatus = "done"
	MergeStatusFailed        MergeStatus = "failed"
)

// SegmentGroup は1本の動画から切り出す結合済み区間の集まりを表す
type SegmentGroup struct {
	VideoID    uuid.UUID        `json:"videoID"`
	VideoTitle string           `json:"videoTitle"`
	VideoPath  string           `json:"videoPath"`
	Segments   []scene.Interval `json:"segments"`
}

// TotalDuration はグループ内の全区間の合計秒数を返す
func (g *SegmentGroup) TotalDuration() float64 {
	var total float64
	for _, seg := range g.Segments {
		total += seg.Duration()
	}
	return total
}

// MergeResult は動画結合処理の結果を表す
type MergeResult struct {
	OutputPath    string          `json:"outputPath"`
	Status        MergeStatus     `json:"status"`
	Groups        []*SegmentGroup `json:"groups"`
	SegmentCount  int             `json:"segmentCount"`
	TotalDuration float64         `json:"totalDuration"`
}
