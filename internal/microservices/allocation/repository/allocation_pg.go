package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fulfillment-system/internal/domain"
)

type AllocationRepo struct {
	db *sql.DB
}

func New(db *sql.DB) *AllocationRepo { return &AllocationRepo{db: db} }

func (r *AllocationRepo) LoadSupplierMap(ctx context.Context) (domain.SupplierMap, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT sku, supplier_name FROM suppliers`)
	if err != nil {
		return nil, fmt.Errorf("load supplier map: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]string)
	for rows.Next() {
		var sku, supplier string
		if err := rows.Scan(&sku, &supplier); err != nil {
			return nil, err
		}
		raw[sku] = supplier
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewSupplierMap(raw), nil
}

func (r *AllocationRepo) LoadStockSnapshot(ctx context.Context) (domain.StockSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT supplier_name, sku, quantity FROM stock`)
	if err != nil {
		return nil, fmt.Errorf("load stock snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := make(domain.StockSnapshot)
	for rows.Next() {
		var supplier, sku string
		var qty int
		if err := rows.Scan(&supplier, &sku, &qty); err != nil {
			return nil, err
		}
		if snapshot[supplier] == nil {
			snapshot[supplier] = make(map[string]int)
		}
		snapshot[supplier][domain.NormalizeSKU(sku)] = qty
	}
	return snapshot, rows.Err()
}

func (r *AllocationRepo) LoadParcelLimits(ctx context.Context) (domain.MaxPerParcelConfig, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT sku, max_per_parcel FROM sku_parcel_limits`)
	if err != nil {
		return nil, fmt.Errorf("load parcel limits: %w", err)
	}
	defer rows.Close()

	limits := make(domain.MaxPerParcelConfig)
	for rows.Next() {
		var sku string
		var max int
		if err := rows.Scan(&sku, &max); err != nil {
			return nil, err
		}
		limits[domain.NormalizeSKU(sku)] = max
	}
	return limits, rows.Err()
}

func (r *AllocationRepo) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run tx: %w", err)
	}
	return nil
}

func (r *AllocationRepo) WriteStockTx(ctx context.Context, tx *sql.Tx, snapshot domain.StockSnapshot) error {
	for supplier, skus := range snapshot {
		for sku, qty := range skus {
			_, err := tx.ExecContext(ctx, `
INSERT INTO stock (supplier_name, sku, quantity, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (supplier_name, sku) DO UPDATE SET
  quantity = EXCLUDED.quantity,
  updated_at = NOW()
`, supplier, sku, qty)
			if err != nil {
				return fmt.Errorf("write stock %s/%s: %w", supplier, sku, err)
			}
		}
	}
	return nil
}
