package engine_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/engine"
	"fulfillment-system/internal/ledger"
)

var batchDay = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

func newTestBatcher(led ledger.Ledger, maxOrders int) *engine.Batcher {
	b := engine.NewBatcher(led, maxOrders, func(s string) string {
		return "CB-" + strings.ToUpper(s)
	})
	b.Now = func() time.Time { return batchDay }
	return b
}

func TestPONumberFormat(t *testing.T) {
	assert.Equal(t, "CB-NISBETS-20250115-001", engine.PONumber("CB-NISBETS", batchDay, 1))
	assert.Equal(t, "CB-NISBETS-20250115-012", engine.PONumber("CB-NISBETS", batchDay, 12))
}

func TestBatchSplitsAtMaxOrders(t *testing.T) {
	residual := map[string][]domain.OrderLine{"Nisbets": nil}
	for i := 1; i <= 45; i++ {
		residual["Nisbets"] = append(residual["Nisbets"], domain.OrderLine{
			OrderID:  fmt.Sprintf("O%03d", i),
			SKU:      "SKU-A",
			Quantity: 1,
		})
	}

	led := ledger.NewMemory()
	batches, err := newTestBatcher(led, 20).Batch(context.Background(), residual)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Len(t, batches[0].OrderIDs(), 20)
	assert.Len(t, batches[1].OrderIDs(), 20)
	assert.Len(t, batches[2].OrderIDs(), 5)

	assert.Equal(t, "CB-NISBETS-20250115-001", batches[0].PONumber)
	assert.Equal(t, "CB-NISBETS-20250115-002", batches[1].PONumber)
	assert.Equal(t, "CB-NISBETS-20250115-003", batches[2].PONumber)

	// every batch respects the bound and was written to the ledger
	for _, b := range batches {
		assert.LessOrEqual(t, len(b.OrderIDs()), 20)
		stored, err := led.Get(context.Background(), b.PONumber)
		require.NoError(t, err)
		assert.Equal(t, b.Lines, stored)
	}
}

func TestBatchKeepsAllLinesOfAnOrderTogether(t *testing.T) {
	residual := map[string][]domain.OrderLine{
		"Nisbets": {
			{OrderID: "o1", SKU: "SKU-A", Quantity: 1},
			{OrderID: "o2", SKU: "SKU-A", Quantity: 2},
			{OrderID: "o1", SKU: "SKU-B", Quantity: 3},
		},
	}

	batches, err := newTestBatcher(ledger.NewMemory(), 2).Batch(context.Background(), residual)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	require.Equal(t, []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 1},
		{OrderID: "o2", SKU: "SKU-A", Quantity: 2},
		{OrderID: "o1", SKU: "SKU-B", Quantity: 3},
	}, batches[0].Lines)
	assert.Equal(t, []string{"o1", "o2"}, batches[0].OrderIDs())
}

func TestBatchSequencesPerSupplier(t *testing.T) {
	residual := map[string][]domain.OrderLine{
		"Nortons": {{OrderID: "n1", SKU: "SKU-C", Quantity: 1}},
		"Nisbets": {{OrderID: "o1", SKU: "SKU-A", Quantity: 1}},
	}

	batches, err := newTestBatcher(ledger.NewMemory(), 20).Batch(context.Background(), residual)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	// suppliers processed in name order, each with its own sequence
	assert.Equal(t, "CB-NISBETS-20250115-001", batches[0].PONumber)
	assert.Equal(t, "CB-NORTONS-20250115-001", batches[1].PONumber)
}

func TestBatchCollisionFailsLoudly(t *testing.T) {
	led := ledger.NewMemory()
	existing := []domain.OrderLine{{OrderID: "old", SKU: "SKU-X", Quantity: 1}}
	require.NoError(t, led.Put(context.Background(), "CB-NISBETS-20250115-001", existing))

	residual := map[string][]domain.OrderLine{
		"Nisbets": {{OrderID: "o1", SKU: "SKU-A", Quantity: 1}},
	}

	batches, err := newTestBatcher(led, 20).Batch(context.Background(), residual)
	require.Error(t, err)
	assert.Nil(t, batches)
	assert.Equal(t, domain.KindBatchCollision, domain.KindOf(err))

	// the existing entry was not overwritten
	stored, gerr := led.Get(context.Background(), "CB-NISBETS-20250115-001")
	require.NoError(t, gerr)
	assert.Equal(t, existing, stored)
}

func TestBatchDeterministic(t *testing.T) {
	residual := func() map[string][]domain.OrderLine {
		return map[string][]domain.OrderLine{
			"Nisbets": {
				{OrderID: "o2", SKU: "SKU-A", Quantity: 2},
				{OrderID: "o1", SKU: "SKU-B", Quantity: 1},
			},
			"Nortons": {{OrderID: "n1", SKU: "SKU-C", Quantity: 4}},
		}
	}

	first, err := newTestBatcher(ledger.NewMemory(), 20).Batch(context.Background(), residual())
	require.NoError(t, err)
	second, err := newTestBatcher(ledger.NewMemory(), 20).Batch(context.Background(), residual())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBatchEmptyResidual(t *testing.T) {
	batches, err := newTestBatcher(ledger.NewMemory(), 20).Batch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batches)
}
