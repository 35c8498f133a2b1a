package earning

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func earningRows(earnings ...Earning) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "agent_id", "amount_lkr", "status", "source", "buyer_id",
		"buyer_email", "item", "used_promo_code", "claim_id", "created_at",
		"processed_at", "paid_at",
	})
	for _, e := range earnings {
		rows.AddRow(e.ID, e.AgentID, e.AmountLKR, e.Status, e.Source, nil, nil,
			e.Item, nil, nil, e.CreatedAt, nil, nil)
	}
	return rows
}

func TestListByAgentOrdering(t *testing.T) {
	tests := []struct {
		status  Status
		orderBy string
	}{
		{StatusPending, `ORDER BY created_at DESC`},
		{StatusProcessed, `ORDER BY COALESCE\(processed_at, created_at\) DESC`},
		{StatusPaid, `ORDER BY COALESCE\(paid_at, processed_at, created_at\) DESC`},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo, mock := newMockRepo(t)
			agentID := uuid.New()

			mock.ExpectQuery(`SELECT \* FROM earnings\s+WHERE agent_id = \$1 AND status = \$2\s+` + tt.orderBy).
				WithArgs(agentID, tt.status, 20, 0).
				WillReturnRows(earningRows())

			_, err := repo.ListByAgent(context.Background(), agentID, tt.status, 20, 0)
			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListByAgentRejectsUnknownStatus(t *testing.T) {
	repo, _ := newMockRepo(t)

	_, err := repo.ListByAgent(context.Background(), uuid.New(), Status("archived"), 20, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSubmitClaimBelowMinimum(t *testing.T) {
	repo, mock := newMockRepo(t)
	agentID := uuid.New()
	e1 := Earning{ID: uuid.New(), AgentID: agentID, AmountLKR: 2000, Status: StatusPending, Item: "hotel", CreatedAt: time.Now()}
	e2 := Earning{ID: uuid.New(), AgentID: agentID, AmountLKR: 2000, Status: StatusPending, Item: "hotel", CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM earnings WHERE id IN \(.+\) FOR UPDATE`).
		WillReturnRows(earningRows(e1, e2))
	mock.ExpectRollback()

	_, err := repo.SubmitClaim(context.Background(), agentID, []uuid.UUID{e1.ID, e2.ID}, 5000)
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitClaimSucceedsAtThreshold(t *testing.T) {
	repo, mock := newMockRepo(t)
	agentID := uuid.New()
	var earnings []Earning
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		e := Earning{ID: uuid.New(), AgentID: agentID, AmountLKR: 2000, Status: StatusPending, Item: "hotel", CreatedAt: time.Now()}
		earnings = append(earnings, e)
		ids = append(ids, e.ID)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM earnings WHERE id IN \(.+\) FOR UPDATE`).
		WillReturnRows(earningRows(earnings...))
	mock.ExpectExec(`INSERT INTO claim_requests`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE earnings\s+SET status = 'processed'`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	claim, err := repo.SubmitClaim(context.Background(), agentID, ids, 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), claim.TotalAmountLKR)
	assert.Equal(t, 3, claim.EarningCount)
	assert.Equal(t, ClaimStatusSubmitted, claim.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitClaimForeignEarning(t *testing.T) {
	repo, mock := newMockRepo(t)
	agentID := uuid.New()
	mine := Earning{ID: uuid.New(), AgentID: agentID, AmountLKR: 3000, Status: StatusPending, Item: "hotel", CreatedAt: time.Now()}
	foreign := Earning{ID: uuid.New(), AgentID: uuid.New(), AmountLKR: 3000, Status: StatusPending, Item: "hotel", CreatedAt: time.Now()}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM earnings WHERE id IN \(.+\) FOR UPDATE`).
		WillReturnRows(earningRows(mine, foreign))
	mock.ExpectRollback()

	_, err := repo.SubmitClaim(context.Background(), agentID, []uuid.UUID{mine.ID, foreign.ID}, 5000)
	assert.ErrorIs(t, err, ErrNotOwnedOrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitClaimRaceLoser(t *testing.T) {
	// Rows read as pending but grabbed by a concurrent claim before the
	// guarded update: the affected count comes up short and the claim aborts.
	repo, mock := newMockRepo(t)
	agentID := uuid.New()
	var earnings []Earning
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		e := Earning{ID: uuid.New(), AgentID: agentID, AmountLKR: 2000, Status: StatusPending, Item: "hotel", CreatedAt: time.Now()}
		earnings = append(earnings, e)
		ids = append(ids, e.ID)
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM earnings WHERE id IN \(.+\) FOR UPDATE`).
		WillReturnRows(earningRows(earnings...))
	mock.ExpectExec(`INSERT INTO claim_requests`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE earnings\s+SET status = 'processed'`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	_, err := repo.SubmitClaim(context.Background(), agentID, ids, 5000)
	assert.ErrorIs(t, err, ErrNotOwnedOrNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitClaimEmpty(t *testing.T) {
	repo, _ := newMockRepo(t)

	_, err := repo.SubmitClaim(context.Background(), uuid.New(), nil, 5000)
	assert.ErrorIs(t, err, ErrEmptyClaim)
}

func TestCreditBumpsAgentTotal(t *testing.T) {
	repo, mock := newMockRepo(t)
	agentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO earnings`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE agents SET total_earnings_lkr = total_earnings_lkr \+ \$1`).
		WithArgs(int64(2000), agentID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Credit(context.Background(), &Earning{
		AgentID:   agentID,
		AmountLKR: 2000,
		Source:    SourceMonthlyAd,
		Item:      "monthly ad package",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
