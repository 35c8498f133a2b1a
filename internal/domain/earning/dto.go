package earning

import (
	"database/sql"

	"github.com/google/uuid"
)

type CreditRequest struct {
	AgentID       uuid.UUID `json:"agent_id" validate:"required"`
	AmountLKR     int64     `json:"amount_lkr" validate:"required,gt=0"`
	Source        string    `json:"source" validate:"required,earning_source"`
	BuyerID       string    `json:"buyer_id,omitempty"`
	BuyerEmail    string    `json:"buyer_email,omitempty" validate:"omitempty,email"`
	Item          string    `json:"item" validate:"required,max=128"`
	UsedPromoCode string    `json:"used_promo_code,omitempty" validate:"omitempty,min=4,max=16"`
}

func (r *CreditRequest) toEntity() *Earning {
	e := &Earning{
		AgentID:   r.AgentID,
		AmountLKR: r.AmountLKR,
		Source:    Source(r.Source),
		Item:      r.Item,
	}
	if r.BuyerID != "" {
		e.BuyerID = sql.NullString{String: r.BuyerID, Valid: true}
	}
	if r.BuyerEmail != "" {
		e.BuyerEmail = sql.NullString{String: r.BuyerEmail, Valid: true}
	}
	if r.UsedPromoCode != "" {
		e.UsedPromoCode = sql.NullString{String: r.UsedPromoCode, Valid: true}
	}
	return e
}

type SubmitClaimRequest struct {
	EarningIDs []uuid.UUID `json:"earning_ids" validate:"required,min=1,dive,required"`
}

type TotalsResponse struct {
	Totals
	MinClaimThresholdLKR int64 `json:"min_claim_threshold_lkr"`
	Claimable            bool  `json:"claimable"`
}
