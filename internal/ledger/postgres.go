package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fulfillment-system/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres stores the ledger in po_batches / po_batch_lines. A duplicate
// PO number is rejected by the primary key, never overwritten.
type Postgres struct {
	db    *sql.DB
	tx    *sql.Tx
	runID string
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// WithTx binds the ledger to an open transaction so batch writes commit
// or roll back together with the rest of the run.
func (p *Postgres) WithTx(tx *sql.Tx, runID string) *Postgres {
	return &Postgres{tx: tx, runID: runID}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (p *Postgres) q() querier {
	if p.tx != nil {
		return p.tx
	}
	return p.db
}

func (p *Postgres) Put(ctx context.Context, poNumber string, lines []domain.OrderLine) error {
	if p.tx != nil {
		return p.put(ctx, p.tx, poNumber, lines)
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := p.put(ctx, tx, poNumber, lines); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}

func (p *Postgres) put(ctx context.Context, tx *sql.Tx, poNumber string, lines []domain.OrderLine) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO po_batches (po_number, run_id, created_at)
VALUES ($1, $2, NOW())
`, poNumber, p.runID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("po %s: %w", poNumber, domain.ErrDuplicateKey)
		}
		return fmt.Errorf("insert po %s: %w", poNumber, err)
	}
	for _, ln := range lines {
		_, err = tx.ExecContext(ctx, `
INSERT INTO po_batch_lines (po_number, order_id, sku, quantity)
VALUES ($1, $2, $3, $4)
`, poNumber, ln.OrderID, ln.SKU, ln.Quantity)
		if err != nil {
			return fmt.Errorf("insert po %s line %s/%s: %w", poNumber, ln.OrderID, ln.SKU, err)
		}
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, poNumber string) ([]domain.OrderLine, error) {
	var exists bool
	err := p.q().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM po_batches WHERE po_number = $1)`, poNumber).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check po %s: %w", poNumber, err)
	}
	if !exists {
		return nil, fmt.Errorf("po %s: %w", poNumber, domain.ErrNotFound)
	}

	rows, err := p.q().QueryContext(ctx, `
SELECT order_id, sku, quantity
FROM po_batch_lines
WHERE po_number = $1
ORDER BY id
`, poNumber)
	if err != nil {
		return nil, fmt.Errorf("load po %s: %w", poNumber, err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var ln domain.OrderLine
		if err := rows.Scan(&ln.OrderID, &ln.SKU, &ln.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

func (p *Postgres) Find(ctx context.Context, poNumber, sku string) ([]string, error) {
	if _, err := p.Get(ctx, poNumber); err != nil {
		return nil, err
	}
	rows, err := p.q().QueryContext(ctx, `
SELECT order_id
FROM po_batch_lines
WHERE po_number = $1 AND upper(btrim(sku)) = $2
ORDER BY id
`, poNumber, domain.NormalizeSKU(sku))
	if err != nil {
		return nil, fmt.Errorf("find %s in po %s: %w", sku, poNumber, err)
	}
	defer rows.Close()

	orderIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		orderIDs = append(orderIDs, id)
	}
	return orderIDs, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
