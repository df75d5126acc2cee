package repository

import (
	"context"
	"database/sql"

	"fulfillment-system/internal/domain"
)

// AllocationRepoInterface is the persistence boundary of an allocation
// run. Reference data loads happen before allocation starts; the write
// side is transactional so a run commits all of its side effects or none.
type AllocationRepoInterface interface {
	LoadSupplierMap(ctx context.Context) (domain.SupplierMap, error)
	LoadStockSnapshot(ctx context.Context) (domain.StockSnapshot, error)
	LoadParcelLimits(ctx context.Context) (domain.MaxPerParcelConfig, error)

	// InTx runs fn inside one transaction and commits only if fn returns
	// nil; any error rolls everything back.
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// WriteStockTx persists the post-run snapshot inside the run tx.
	WriteStockTx(ctx context.Context, tx *sql.Tx, snapshot domain.StockSnapshot) error
}
