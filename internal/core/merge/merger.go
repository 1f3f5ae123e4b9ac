package merge

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Bharath-2656/video-analytics/internal/core/scene"
	"github.com/Bharath-2656/video-analytics/internal/core/search"
)

const (
	// DefaultMergeGap は隣接区間を1つに結合する最大間隔（秒）
	// このギャップ以内で連続するシーンは1区間として切り出す
	DefaultMergeGap = 5.0
)

// MergeHits は検索ヒットを動画ごとにまとめ、近接する区間を結合する
//
// 動画の順序は検索結果で最初に現れた順を保つ。各動画内では区間を
// 開始時刻の昇順に並べ、次の区間の開始が「現在の区間の終了 + gap」
// 以内なら同一区間として延長する。結合が動画をまたぐことはない。
// gap が負の場合はデフォルト値を使う
func MergeHits(hits []*search.SearchHit, gap float64) []*SegmentGroup {
	if len(hits) == 0 {
		return nil
	}
	if gap < 0 {
		gap = DefaultMergeGap
	}

	order := make([]uuid.UUID, 0)
	byVideo := make(map[uuid.UUID]*SegmentGroup)
	intervals := make(map[uuid.UUID][]scene.Interval)

	for _, hit := range hits {
		if _, ok := byVideo[hit.VideoID]; !ok {
			byVideo[hit.VideoID] = &SegmentGroup{
				VideoID:    hit.VideoID,
				VideoTitle: hit.VideoTitle,
				VideoPath:  hit.VideoPath,
			}
			order = append(order, hit.VideoID)
		}
		intervals[hit.VideoID] = append(intervals[hit.VideoID], scene.Interval{
			Start: hit.StartTime,
			End:   hit.EndTime,
		})
	}

	groups := make([]*SegmentGroup, 0, len(order))
	for _, videoID := range order {
		group := byVideo[videoID]
		group.Segments = mergeIntervals(intervals[videoID], gap)
		groups = append(groups, group)
	}

	return groups
}

// mergeIntervals は区間列を開始時刻順に並べ、gap 以内で連続する区間を結合する
func mergeIntervals(ivs []scene.Interval, gap float64) []scene.Interval {
	if len(ivs) == 0 {
		return nil
	}

	sorted := make([]scene.Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]scene.Interval, 0, len(sorted))
	current := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.Start <= current.End+gap {
			if iv.End > current.End {
				current.End = iv.End
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}
	merged = append(merged, current)

	return merged
}
