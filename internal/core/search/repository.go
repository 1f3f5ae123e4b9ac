package search

import (
	"context"
)

// Repository はシーン検索のデータアクセスインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// SearchScenes はクエリベクトルとの類似度順にシーンを検索する
	SearchScenes(ctx context.Context, queryVector []float32, limit int, filter SearchFilter) ([]*SearchHit, error)
}
