// Package ledger is the durable PO-number index: which order lines went
// into which purchase order. It is the single source of truth for that
// mapping and is append-only; entries are written once per batch and
// never regenerated.
package ledger

import (
	"context"

	"fulfillment-system/internal/domain"
)

type Ledger interface {
	// Put stores the lines of a new batch. Returns domain.ErrDuplicateKey
	// if the PO number already exists; it never overwrites.
	Put(ctx context.Context, poNumber string, lines []domain.OrderLine) error

	// Get returns the lines of a batch, domain.ErrNotFound if absent.
	Get(ctx context.Context, poNumber string) ([]domain.OrderLine, error)

	// Find returns the order ids inside a batch whose SKU matches,
	// case/whitespace-normalized. Empty slice when nothing matches,
	// domain.ErrNotFound when the PO number is absent.
	Find(ctx context.Context, poNumber, sku string) ([]string, error)
}
