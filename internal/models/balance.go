package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BalanceTypeTabCoin = "user:tabcoin"
	BalanceTypeTabCash = "user:tabcash"
)

type BalanceOperation struct {
	ID          int64     `json:"id"`
	BalanceType string    `json:"balance_type"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// Balances are derived from balance_operations; no operations means zero.
type Balances struct {
	TabCoins int64
	TabCash  int64
}
