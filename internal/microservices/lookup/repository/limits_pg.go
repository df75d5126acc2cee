package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fulfillment-system/internal/domain"
)

type LimitsRepoInterface interface {
	Upsert(ctx context.Context, sku string, maxPerParcel int) error
	Delete(ctx context.Context, sku string) (bool, error)
	List(ctx context.Context) (domain.MaxPerParcelConfig, error)
}

// LimitsRepo maintains the per-SKU max-units-per-parcel table.
type LimitsRepo struct {
	db *sql.DB
}

func NewLimitsRepo(db *sql.DB) *LimitsRepo { return &LimitsRepo{db: db} }

func (r *LimitsRepo) Upsert(ctx context.Context, sku string, maxPerParcel int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sku_parcel_limits (sku, max_per_parcel, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (sku) DO UPDATE SET
  max_per_parcel = EXCLUDED.max_per_parcel,
  updated_at = NOW()
`, domain.NormalizeSKU(sku), maxPerParcel)
	if err != nil {
		return fmt.Errorf("upsert limit %s: %w", sku, err)
	}
	return nil
}

func (r *LimitsRepo) Delete(ctx context.Context, sku string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sku_parcel_limits WHERE sku = $1`, domain.NormalizeSKU(sku))
	if err != nil {
		return false, fmt.Errorf("delete limit %s: %w", sku, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *LimitsRepo) List(ctx context.Context) (domain.MaxPerParcelConfig, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT sku, max_per_parcel FROM sku_parcel_limits ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("list limits: %w", err)
	}
	defer rows.Close()

	limits := make(domain.MaxPerParcelConfig)
	for rows.Next() {
		var sku string
		var max int
		if err := rows.Scan(&sku, &max); err != nil {
			return nil, err
		}
		limits[sku] = max
	}
	return limits, rows.Err()
}
