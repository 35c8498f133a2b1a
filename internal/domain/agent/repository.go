package agent

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/holidaysri/promo-api/internal/domain/tier"
)

// Repository defines agent registry data access
type Repository interface {
	Create(ctx context.Context, a *Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*Agent, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Agent, error)
	GetByCode(ctx context.Context, code string) (*Agent, error)
	RecordAdEvent(ctx context.Context, agentID uuid.UUID, idempotencyKey string, thresholds map[tier.Tier]int64) (a *Agent, applied bool, upgraded bool, err error)
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	GetByUserIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*Agent, error)
	RenewTx(ctx context.Context, tx *sqlx.Tx, agentID uuid.UUID, newTier tier.Tier, newExpiration time.Time) (*Agent, error)
	ExpireAgents(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates agent registry repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const agentColumns = `
	id, user_id, promo_code, tier, is_verified, is_active, activated_at,
	expiration_date, referred_by_code, ads_promoted_count, total_earnings_lkr,
	created_at, updated_at
`

// Uniqueness is enforced at write time by two indexes: a unique index on
// promo_code and a partial unique index on user_id where is_active. The
// read-then-write pre-check the old flow used is race-prone and gone.
func (r *repository) Create(ctx context.Context, a *Agent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO agents (
			id, user_id, promo_code, tier, is_verified, is_active, activated_at,
			expiration_date, referred_by_code, ads_promoted_count, total_earnings_lkr,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 0, $10, $11)
	`, a.ID, a.UserID, a.PromoCode, a.Tier, a.IsVerified, a.IsActive,
		a.ActivatedAt, a.ExpirationDate, a.ReferredByCode, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "agents_promo_code_key":
				return ErrPromoCodeTaken
			default:
				return ErrDuplicateActiveCode
			}
		}
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Agent, error) {
	return r.getOne(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*Agent, error) {
	return r.getOne(ctx, `
		SELECT `+agentColumns+`
		FROM agents
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Agent, error) {
	return r.getOne(ctx, `SELECT `+agentColumns+` FROM agents WHERE promo_code = $1`, code)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*Agent, error) {
	var a Agent
	err := r.db.GetContext(ctx, &a, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// RecordAdEvent applies one promoted-ad event. The idempotency key makes
// replays a no-op: the event row insert hits the unique index and the counter
// is left untouched. The agent row is locked so a concurrent event cannot
// double-advance the tier.
func (r *repository) RecordAdEvent(ctx context.Context, agentID uuid.UUID, idempotencyKey string, thresholds map[tier.Tier]int64) (*Agent, bool, bool, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, false, false, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO agent_ad_events (agent_id, idempotency_key, created_at)
		VALUES ($1, $2, now())
	`, agentID, idempotencyKey)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Replayed event: return current state unchanged.
			a, getErr := r.GetByID(ctx, agentID)
			if getErr != nil {
				return nil, false, false, getErr
			}
			return a, false, false, nil
		}
		if isForeignKeyViolation(err) {
			return nil, false, false, ErrNotFound
		}
		return nil, false, false, err
	}

	var a Agent
	err = tx.GetContext(ctx, &a, `SELECT `+agentColumns+` FROM agents WHERE id = $1 FOR UPDATE`, agentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, false, ErrNotFound
		}
		return nil, false, false, err
	}

	newCount := a.AdsPromotedCount + 1
	newTier, upgraded := advanceTier(a.Tier, newCount, thresholds)

	err = tx.GetContext(ctx, &a, `
		UPDATE agents
		SET ads_promoted_count = $2, tier = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+agentColumns+`
	`, agentID, newCount, newTier)
	if err != nil {
		return nil, false, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, false, err
	}
	return &a, true, upgraded, nil
}

func (r *repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

// GetByUserIDForUpdateTx locks the caller's active registry row inside an
// external transaction. Renewal math must be computed from this locked read,
// never from an earlier snapshot: a concurrent ad-promotion upgrade commits
// a new tier, and a renewal built on the stale row would write it back.
func (r *repository) GetByUserIDForUpdateTx(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*Agent, error) {
	var a Agent
	err := tx.GetContext(ctx, &a, `
		SELECT `+agentColumns+`
		FROM agents
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// RenewTx extends the activation window (and optionally the tier) inside an
// external transaction, so the wallet debit and the registry mutation commit
// or roll back as one unit.
func (r *repository) RenewTx(ctx context.Context, tx *sqlx.Tx, agentID uuid.UUID, newTier tier.Tier, newExpiration time.Time) (*Agent, error) {
	var a Agent
	err := tx.GetContext(ctx, &a, `
		UPDATE agents
		SET tier = $2, expiration_date = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+agentColumns+`
	`, agentID, newTier, newExpiration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ExpireAgents deactivates agents whose activation window has passed
func (r *repository) ExpireAgents(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE agents
		SET is_active = false, updated_at = now()
		WHERE is_active = true AND expiration_date < now()
	`)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()
	return int(affected), nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
