package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) EnsureWallet(ctx context.Context, userID uuid.UUID, currency Currency) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (user_id, currency, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id, currency) DO NOTHING
	`, userID, currency)
	return err
}

func (r *Repository) GetBalance(ctx context.Context, userID uuid.UUID, currency Currency) (int64, error) {
	if err := r.EnsureWallet(ctx, userID, currency); err != nil {
		return 0, err
	}

	var balance int64
	err := r.db.GetContext(ctx, &balance, `
		SELECT balance FROM wallets WHERE user_id = $1 AND currency = $2
	`, userID, currency)
	return balance, err
}

func (r *Repository) beginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (r *Repository) lockWallet(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency Currency) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO wallets (user_id, currency, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id, currency) DO NOTHING
	`, userID, currency); err != nil {
		return 0, err
	}

	var balance int64
	err := tx.GetContext(ctx, &balance, `
		SELECT balance FROM wallets WHERE user_id = $1 AND currency = $2 FOR UPDATE
	`, userID, currency)
	return balance, err
}

func (r *Repository) getTransactionAmountByRef(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency Currency, txType TransactionType, referenceID string) (int64, bool, error) {
	if referenceID == "" {
		return 0, false, nil
	}

	var amount int64
	err := tx.GetContext(ctx, &amount, `
		SELECT amount
		FROM wallet_transactions
		WHERE user_id = $1 AND currency = $2 AND type = $3 AND reference_id = $4
		LIMIT 1
	`, userID, currency, string(txType), referenceID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

func (r *Repository) updateBalance(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency Currency, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE wallets SET balance = $1, updated_at = now()
		WHERE user_id = $2 AND currency = $3
	`, balance, userID, currency)
	return err
}

func (r *Repository) insertTransaction(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency Currency, amount int64, txType TransactionType, referenceID string) error {
	var ref interface{}
	if referenceID == "" {
		ref = nil
	} else {
		ref = referenceID
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (user_id, currency, amount, type, reference_id)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, currency, amount, string(txType), ref)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

// applyTx applies a signed amount to the wallet inside an existing transaction.
// Replaying the same (type, reference_id) with the same amount is a no-op;
// replaying it with a different amount is a conflict.
func (r *Repository) applyTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency Currency, amount int64, txType TransactionType, referenceID string) error {
	balance, err := r.lockWallet(ctx, tx, userID, currency)
	if err != nil {
		return err
	}

	existingAmount, exists, err := r.getTransactionAmountByRef(ctx, tx, userID, currency, txType, referenceID)
	if err != nil {
		return err
	}
	if exists {
		if existingAmount != amount {
			return ErrReferenceConflict
		}
		return nil
	}

	nextBalance := balance + amount
	if nextBalance < 0 {
		return ErrInsufficientFunds
	}

	if err := r.updateBalance(ctx, tx, userID, currency, nextBalance); err != nil {
		return err
	}

	if err := r.insertTransaction(ctx, tx, userID, currency, amount, txType, referenceID); err != nil {
		if errors.Is(err, ErrDuplicateReference) {
			existingAmount, exists, checkErr := r.getTransactionAmountByRef(ctx, tx, userID, currency, txType, referenceID)
			if checkErr != nil {
				return checkErr
			}
			if !exists || existingAmount != amount {
				return ErrReferenceConflict
			}
			return nil
		}
		return err
	}

	return nil
}

func (r *Repository) apply(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, txType TransactionType, referenceID string) error {
	tx, err := r.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.applyTx(ctx, tx, userID, currency, amount, txType, referenceID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) TopUp(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, referenceID string) error {
	return r.apply(ctx, userID, currency, amount, TransactionTypeTopUp, referenceID)
}

func (r *Repository) Spend(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, referenceID string) error {
	return r.apply(ctx, userID, currency, -amount, TransactionTypePayment, referenceID)
}

func (r *Repository) Refund(ctx context.Context, userID uuid.UUID, currency Currency, amount int64, referenceID string) error {
	return r.apply(ctx, userID, currency, amount, TransactionTypeRefund, referenceID)
}

// DebitTx debits inside an external transaction so callers can make a payment
// atomic with their own writes (agent renewal). The caller commits or rolls back.
func (r *Repository) DebitTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, currency Currency, amount int64, referenceID string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return r.applyTx(ctx, tx, userID, currency, -amount, TransactionTypePayment, referenceID)
}
