package wallet

import (
	"time"

	"github.com/google/uuid"
)

// Currency is one of the platform's internal balances
type Currency string

const (
	CurrencyHSC Currency = "HSC"
	CurrencyHSD Currency = "HSD"
	CurrencyHSG Currency = "HSG"
	CurrencyLKR Currency = "LKR"
)

// IsValid reports whether c is a known currency
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyHSC, CurrencyHSD, CurrencyHSG, CurrencyLKR:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionTypeTopUp   TransactionType = "topup"
	TransactionTypePayment TransactionType = "payment"
	TransactionTypeRefund  TransactionType = "refund"
)

// Wallet is one balance per (user, currency)
type Wallet struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Currency  Currency  `db:"currency" json:"currency"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	Currency    Currency        `db:"currency" json:"currency"`
	Amount      int64           `db:"amount" json:"amount"`
	Type        TransactionType `db:"type" json:"type"`
	ReferenceID *string         `db:"reference_id" json:"reference_id,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
