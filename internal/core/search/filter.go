package search

import (
	"context"
)

const (
	// FallbackTopN はフィルタが候補を1件も選ばなかった場合に返す上位件数
	FallbackTopN = 2
)

// RelevanceFilter はベクトル検索の候補から本当に関連するシーンを選別する
// インターフェース。LLMによる実装を想定しており、選ばれた候補の
// 0始まりインデックス列を返す
type RelevanceFilter interface {
	FilterRelevant(ctx context.Context, query string, hits []*SearchHit) ([]int, error)
}

// applyRelevanceSelection はフィルタの選別結果を候補列に適用する
//
// 範囲外のインデックスは無視し、選別結果が空（かつ候補が存在する）場合は
// 類似度上位 FallbackTopN 件にフォールバックする。候補列は類似度の
// 降順で渡される前提
func applyRelevanceSelection(hits []*SearchHit, selected []int) []*SearchHit {
	if len(hits) == 0 {
		return hits
	}

	filtered := make([]*SearchHit, 0, len(selected))
	seen := make(map[int]struct{}, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= len(hits) {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		filtered = append(filtered, hits[idx])
	}

	if len(filtered) == 0 {
		n := FallbackTopN
		if n > len(hits) {
			n = len(hits)
		}
		return hits[:n]
	}

	return filtered
}
