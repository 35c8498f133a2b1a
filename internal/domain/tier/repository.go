package tier

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository defines tier catalog data access
type Repository interface {
	GetConfig(ctx context.Context, t Tier) (*Config, error)
	ListConfigs(ctx context.Context) ([]*Config, error)
	GetGlobalDiscount(ctx context.Context) (*GlobalDiscount, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates tier catalog repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const configColumns = `
	tier, price_hsc, original_price_hsc, discount_rate,
	earning_for_purchase_lkr, earning_for_monthly_ad_lkr, earning_for_daily_ad_lkr,
	ads_required_for_next_tier, promo_discount_type, promo_discount_value, updated_at
`

func (r *repository) GetConfig(ctx context.Context, t Tier) (*Config, error) {
	var cfg Config
	err := r.db.GetContext(ctx, &cfg, `
		SELECT `+configColumns+`
		FROM tier_configs
		WHERE tier = $1
	`, t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) ListConfigs(ctx context.Context) ([]*Config, error) {
	var configs []*Config
	err := r.db.SelectContext(ctx, &configs, `
		SELECT `+configColumns+`
		FROM tier_configs
		ORDER BY price_hsc
	`)
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repository) GetGlobalDiscount(ctx context.Context) (*GlobalDiscount, error) {
	var gd GlobalDiscount
	err := r.db.GetContext(ctx, &gd, `
		SELECT purchase_discount_hsc, updated_at
		FROM global_discounts
		LIMIT 1
	`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No seasonal referral discount configured means a zero discount,
			// which is still a valid quote for policy 1.
			return &GlobalDiscount{}, nil
		}
		return nil, err
	}
	return &gd, nil
}
