package container

import (
	"context"

	"github.com/google/uuid"

	"github.com/Bharath-2656/video-analytics/internal/core/ingestion"
	"github.com/Bharath-2656/video-analytics/internal/infra/postgres"
	"github.com/Bharath-2656/video-analytics/internal/platform/database"
)

// txAwareRepository は postgres.Repository をラップし、
// 複数テーブルにまたがる削除を単一トランザクションで実行します
type txAwareRepository struct {
	*postgres.Repository
	txProvider *database.TransactionProvider
}

func newTxAwareRepository(repo *postgres.Repository, txProvider *database.TransactionProvider) *txAwareRepository {
	return &txAwareRepository{
		Repository: repo,
		txProvider: txProvider,
	}
}

var _ ingestion.Repository = (*txAwareRepository)(nil)

// DeleteVideo はシーンと動画を同一トランザクション内で削除します
func (r *txAwareRepository) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	_, err := database.Transact(ctx, r.txProvider, func(a *database.Adapter) (struct{}, error) {
		if err := a.Videos.DeleteScenesByVideoID(ctx, id); err != nil {
			return struct{}{}, err
		}
		if err := a.Videos.DeleteVideo(ctx, id); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	return err
}
