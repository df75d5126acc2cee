package ledger

import (
	"context"
	"fmt"
	"sync"

	"fulfillment-system/internal/domain"
)

// Memory is an in-process ledger used by tests and dry runs.
type Memory struct {
	mu      sync.RWMutex
	batches map[string][]domain.OrderLine
}

func NewMemory() *Memory {
	return &Memory{batches: make(map[string][]domain.OrderLine)}
}

func (m *Memory) Put(ctx context.Context, poNumber string, lines []domain.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.batches[poNumber]; exists {
		return fmt.Errorf("po %s: %w", poNumber, domain.ErrDuplicateKey)
	}
	cp := make([]domain.OrderLine, len(lines))
	copy(cp, lines)
	m.batches[poNumber] = cp
	return nil
}

func (m *Memory) Get(ctx context.Context, poNumber string) ([]domain.OrderLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lines, exists := m.batches[poNumber]
	if !exists {
		return nil, fmt.Errorf("po %s: %w", poNumber, domain.ErrNotFound)
	}
	cp := make([]domain.OrderLine, len(lines))
	copy(cp, lines)
	return cp, nil
}

func (m *Memory) Find(ctx context.Context, poNumber, sku string) ([]string, error) {
	lines, err := m.Get(ctx, poNumber)
	if err != nil {
		return nil, err
	}
	want := domain.NormalizeSKU(sku)
	orderIDs := []string{}
	for _, ln := range lines {
		if domain.NormalizeSKU(ln.SKU) == want {
			orderIDs = append(orderIDs, ln.OrderID)
		}
	}
	return orderIDs, nil
}
