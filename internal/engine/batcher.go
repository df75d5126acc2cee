package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/ledger"
)

// DefaultMaxOrdersPerBatch bounds how many distinct orders go into one
// purchase order file.
const DefaultMaxOrdersPerBatch = 20

// Batcher chunks residual lines into purchase-order batches and writes
// each batch to the ledger before reporting it.
type Batcher struct {
	Ledger    ledger.Ledger
	MaxOrders int
	PrefixFor func(supplier string) string
	Now       func() time.Time
}

func NewBatcher(led ledger.Ledger, maxOrders int, prefixFor func(string) string) *Batcher {
	if maxOrders <= 0 {
		maxOrders = DefaultMaxOrdersPerBatch
	}
	return &Batcher{
		Ledger:    led,
		MaxOrders: maxOrders,
		PrefixFor: prefixFor,
		Now:       time.Now,
	}
}

// PONumber formats a purchase-order identifier: prefix, calendar day,
// 1-based sequence within that day for the supplier.
func PONumber(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, day.Format("20060102"), seq)
}

// Batch groups residual lines per supplier into batches of at most
// MaxOrders distinct order ids. Suppliers are processed in name order and
// order ids in first-seen order, so identical input yields identical
// batches. Each batch is durably in the ledger before it appears in the
// returned slice; a PO-number collision aborts with a fatal error rather
// than overwriting what was already communicated to a supplier.
func (b *Batcher) Batch(ctx context.Context, residual map[string][]domain.OrderLine) ([]domain.POBatch, error) {
	suppliers := make([]string, 0, len(residual))
	for s := range residual {
		suppliers = append(suppliers, s)
	}
	sort.Strings(suppliers)

	day := b.Now().UTC()
	var batches []domain.POBatch

	for _, supplier := range suppliers {
		lines := residual[supplier]
		if len(lines) == 0 {
			continue
		}

		// 1. Distinct order ids, first-seen order.
		seen := make(map[string]bool, len(lines))
		var orderIDs []string
		for _, ln := range lines {
			if !seen[ln.OrderID] {
				seen[ln.OrderID] = true
				orderIDs = append(orderIDs, ln.OrderID)
			}
		}

		// 2. Chunk order ids and gather their lines.
		for seq, i := 1, 0; i < len(orderIDs); seq, i = seq+1, i+b.MaxOrders {
			end := i + b.MaxOrders
			if end > len(orderIDs) {
				end = len(orderIDs)
			}
			chunk := make(map[string]bool, end-i)
			for _, id := range orderIDs[i:end] {
				chunk[id] = true
			}

			var batchLines []domain.OrderLine
			for _, ln := range lines {
				if chunk[ln.OrderID] {
					batchLines = append(batchLines, ln)
				}
			}

			batch := domain.POBatch{
				PONumber: PONumber(b.PrefixFor(supplier), day, seq),
				Supplier: supplier,
				Lines:    batchLines,
			}

			// 3. Ledger write completes before the batch is reported.
			if err := b.Ledger.Put(ctx, batch.PONumber, batch.Lines); err != nil {
				kind := domain.KindPersistenceFailure
				if errors.Is(err, domain.ErrDuplicateKey) {
					kind = domain.KindBatchCollision
				}
				return nil, domain.E(kind, "batch "+batch.PONumber, err)
			}
			batches = append(batches, batch)
		}
	}
	return batches, nil
}
