package database

import (
	"context"

	"github.com/google/uuid"

	"user-session-api/internal/models"
)

func (q *Queries) GetUserBalances(ctx context.Context, userID uuid.UUID) (models.Balances, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE balance_type = $2), 0)::bigint,
			COALESCE(SUM(amount) FILTER (WHERE balance_type = $3), 0)::bigint
		FROM balance_operations
		WHERE recipient_id = $1
	`
	var balances models.Balances
	err := q.db.QueryRow(ctx, query, userID, models.BalanceTypeTabCoin, models.BalanceTypeTabCash).Scan(
		&balances.TabCoins,
		&balances.TabCash,
	)
	if err != nil {
		return models.Balances{}, err
	}
	return balances, nil
}

type CreateBalanceOperationParams struct {
	BalanceType string
	RecipientID uuid.UUID
	Amount      int64
}

func (q *Queries) CreateBalanceOperation(ctx context.Context, arg CreateBalanceOperationParams) (*models.BalanceOperation, error) {
	query := `
		INSERT INTO balance_operations (balance_type, recipient_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, balance_type, recipient_id, amount, created_at
	`
	var op models.BalanceOperation
	err := q.db.QueryRow(ctx, query, arg.BalanceType, arg.RecipientID, arg.Amount).Scan(
		&op.ID,
		&op.BalanceType,
		&op.RecipientID,
		&op.Amount,
		&op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &op, nil
}
