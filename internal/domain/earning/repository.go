package earning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Credit(ctx context.Context, e *Earning) error
	GetByID(ctx context.Context, id uuid.UUID) (*Earning, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, status Status, limit, offset int) ([]Earning, error)
	TotalsByAgent(ctx context.Context, agentID uuid.UUID) (*Totals, error)
	SubmitClaim(ctx context.Context, agentID uuid.UUID, earningIDs []uuid.UUID, minTotalLKR int64) (*ClaimRequest, error)
	SettleClaim(ctx context.Context, claimID uuid.UUID) (*ClaimRequest, error)
	GetClaim(ctx context.Context, claimID uuid.UUID) (*ClaimRequest, error)
	ListClaimsByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]ClaimRequest, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Credit appends a ledger entry and bumps the agent's lifetime total in the
// same transaction, so the denormalized counter can never drift from the
// ledger.
func (r *repository) Credit(ctx context.Context, e *Earning) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO earnings (id, agent_id, amount_lkr, status, source, buyer_id, buyer_email, item, used_promo_code, created_at)
		VALUES (:id, :agent_id, :amount_lkr, :status, :source, :buyer_id, :buyer_email, :item, :used_promo_code, :created_at)`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Status = StatusPending
	e.CreatedAt = time.Now()

	if _, err := tx.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("insert earning: %w", err)
	}

	bump := `UPDATE agents SET total_earnings_lkr = total_earnings_lkr + $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.ExecContext(ctx, bump, e.AmountLKR, e.AgentID); err != nil {
		return fmt.Errorf("bump agent total: %w", err)
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Earning, error) {
	var e Earning
	err := r.db.GetContext(ctx, &e, `SELECT * FROM earnings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get earning: %w", err)
	}
	return &e, nil
}

// ListByAgent returns the agent's ledger slice for one status. The ordering
// key depends on the status: pending entries sort by creation time, processed
// by the time they were claimed, paid by the time they were settled, each
// falling back to the earlier timestamp when the later one is absent.
func (r *repository) ListByAgent(ctx context.Context, agentID uuid.UUID, status Status, limit, offset int) ([]Earning, error) {
	var orderBy string
	switch status {
	case StatusPending:
		orderBy = "created_at DESC"
	case StatusProcessed:
		orderBy = "COALESCE(processed_at, created_at) DESC"
	case StatusPaid:
		orderBy = "COALESCE(paid_at, processed_at, created_at) DESC"
	default:
		return nil, ErrInvalidStatus
	}

	query := fmt.Sprintf(`
		SELECT * FROM earnings
		WHERE agent_id = $1 AND status = $2
		ORDER BY %s
		LIMIT $3 OFFSET $4`, orderBy)

	earnings := []Earning{}
	if err := r.db.SelectContext(ctx, &earnings, query, agentID, status, limit, offset); err != nil {
		return nil, fmt.Errorf("list earnings: %w", err)
	}
	return earnings, nil
}

func (r *repository) TotalsByAgent(ctx context.Context, agentID uuid.UUID) (*Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(amount_lkr) FILTER (WHERE status = 'pending'), 0)   AS pending,
			COALESCE(SUM(amount_lkr) FILTER (WHERE status = 'processed'), 0) AS processed,
			COALESCE(SUM(amount_lkr) FILTER (WHERE status = 'paid'), 0)      AS paid
		FROM earnings
		WHERE agent_id = $1`

	var t Totals
	if err := r.db.GetContext(ctx, &t, query, agentID); err != nil {
		return nil, fmt.Errorf("earning totals: %w", err)
	}
	return &t, nil
}

// SubmitClaim atomically moves a set of pending earnings to processed and
// records the claim. The referenced rows are locked for the duration of the
// transaction; concurrent claims over overlapping earnings serialize on the
// row locks and the loser fails the pending-state check. The claim is
// all-or-nothing: one ineligible earning aborts the whole request.
func (r *repository) SubmitClaim(ctx context.Context, agentID uuid.UUID, earningIDs []uuid.UUID, minTotalLKR int64) (*ClaimRequest, error) {
	if len(earningIDs) == 0 {
		return nil, ErrEmptyClaim
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args, err := sqlx.In(`SELECT * FROM earnings WHERE id IN (?) FOR UPDATE`, earningIDs)
	if err != nil {
		return nil, fmt.Errorf("build lock query: %w", err)
	}
	query = tx.Rebind(query)

	var loaded []Earning
	if err := tx.SelectContext(ctx, &loaded, query, args...); err != nil {
		return nil, fmt.Errorf("lock earnings: %w", err)
	}

	if err := verifyClaimable(loaded, agentID, earningIDs); err != nil {
		return nil, err
	}

	total := sumAmounts(loaded)
	if total < minTotalLKR {
		return nil, ErrBelowMinimum
	}

	claim := &ClaimRequest{
		ID:             uuid.New(),
		AgentID:        agentID,
		TotalAmountLKR: total,
		EarningCount:   len(loaded),
		Status:         ClaimStatusSubmitted,
		CreatedAt:      time.Now(),
	}

	insert := `
		INSERT INTO claim_requests (id, agent_id, total_amount_lkr, earning_count, status, created_at)
		VALUES (:id, :agent_id, :total_amount_lkr, :earning_count, :status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insert, claim); err != nil {
		return nil, fmt.Errorf("insert claim: %w", err)
	}

	// Guarded on status so a row that slipped out of pending between our
	// read and this write cannot be claimed twice.
	update, args, err := sqlx.In(`
		UPDATE earnings
		SET status = 'processed', processed_at = NOW(), claim_id = ?
		WHERE id IN (?) AND status = 'pending'`, claim.ID, earningIDs)
	if err != nil {
		return nil, fmt.Errorf("build claim update: %w", err)
	}
	update = tx.Rebind(update)

	res, err := tx.ExecContext(ctx, update, args...)
	if err != nil {
		return nil, fmt.Errorf("claim earnings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("claim earnings: %w", err)
	}
	if affected != int64(len(earningIDs)) {
		return nil, ErrNotOwnedOrNotPending
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}
	return claim, nil
}

// SettleClaim marks a submitted claim paid and flips its earnings to paid.
// Settling twice is rejected by the conditional update on the claim row.
func (r *repository) SettleClaim(ctx context.Context, claimID uuid.UUID) (*ClaimRequest, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var claim ClaimRequest
	err = tx.GetContext(ctx, &claim, `
		UPDATE claim_requests
		SET status = 'settled', settled_at = NOW()
		WHERE id = $1 AND status = 'submitted'
		RETURNING *`, claimID)
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing claim from one already settled.
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM claim_requests WHERE id = $1)`, claimID); err != nil {
			return nil, fmt.Errorf("check claim: %w", err)
		}
		if exists {
			return nil, ErrAlreadySettled
		}
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("settle claim: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE earnings
		SET status = 'paid', paid_at = NOW()
		WHERE claim_id = $1 AND status = 'processed'`, claimID)
	if err != nil {
		return nil, fmt.Errorf("mark earnings paid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settlement: %w", err)
	}
	return &claim, nil
}

func (r *repository) GetClaim(ctx context.Context, claimID uuid.UUID) (*ClaimRequest, error) {
	var claim ClaimRequest
	err := r.db.GetContext(ctx, &claim, `SELECT * FROM claim_requests WHERE id = $1`, claimID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return &claim, nil
}

func (r *repository) ListClaimsByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]ClaimRequest, error) {
	claims := []ClaimRequest{}
	err := r.db.SelectContext(ctx, &claims, `
		SELECT * FROM claim_requests
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, agentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}
