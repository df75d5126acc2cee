package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/engine"
)

func testSuppliers() domain.SupplierMap {
	return domain.NewSupplierMap(map[string]string{
		"SKU-A": "Nisbets",
		"SKU-B": "Nisbets",
		"SKU-C": "Nortons",
	})
}

func TestAllocateSplitsLineAgainstStock(t *testing.T) {
	lines := []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 5},
		{OrderID: "o2", SKU: "SKU-A", Quantity: 8},
	}
	snapshot := domain.StockSnapshot{"Nisbets": {"SKU-A": 10}}

	result := engine.Allocate(lines, snapshot, engine.NewResolver(testSuppliers()))

	require.Equal(t, []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 5},
		{OrderID: "o2", SKU: "SKU-A", Quantity: 5},
	}, result.Fulfilled)
	require.Equal(t, []domain.OrderLine{
		{OrderID: "o2", SKU: "SKU-A", Quantity: 3},
	}, result.ResidualBySupplier["Nisbets"])
	assert.Equal(t, 0, snapshot.Available("Nisbets", "SKU-A"))
}

func TestAllocateEarlierLineWins(t *testing.T) {
	snapshot := domain.StockSnapshot{"Nisbets": {"SKU-A": 4}}
	lines := []domain.OrderLine{
		{OrderID: "late", SKU: "SKU-A", Quantity: 4},
		{OrderID: "later", SKU: "SKU-A", Quantity: 4},
	}

	result := engine.Allocate(lines, snapshot, engine.NewResolver(testSuppliers()))

	require.Len(t, result.Fulfilled, 1)
	assert.Equal(t, "late", result.Fulfilled[0].OrderID)
	assert.Equal(t, 4, result.Fulfilled[0].Quantity)

	residual := result.ResidualBySupplier["Nisbets"]
	require.Len(t, residual, 1)
	assert.Equal(t, "later", residual[0].OrderID)
	assert.Equal(t, 4, residual[0].Quantity)
}

func TestAllocateConservesQuantities(t *testing.T) {
	lines := []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 7},
		{OrderID: "o1", SKU: "SKU-B", Quantity: 2},
		{OrderID: "o2", SKU: "SKU-A", Quantity: 5},
		{OrderID: "o3", SKU: "SKU-C", Quantity: 9},
	}
	snapshot := domain.StockSnapshot{
		"Nisbets": {"SKU-A": 8, "SKU-B": 0},
		"Nortons": {"SKU-C": 3},
	}

	result := engine.Allocate(lines, snapshot, engine.NewResolver(testSuppliers()))

	totals := map[[2]string]int{}
	for _, ln := range result.Fulfilled {
		totals[[2]string{ln.OrderID, ln.SKU}] += ln.Quantity
	}
	for _, residual := range result.ResidualBySupplier {
		for _, ln := range residual {
			totals[[2]string{ln.OrderID, ln.SKU}] += ln.Quantity
		}
	}
	for _, ln := range lines {
		assert.Equal(t, ln.Quantity, totals[[2]string{ln.OrderID, ln.SKU}],
			"order %s sku %s", ln.OrderID, ln.SKU)
	}
}

func TestAllocateStockNeverNegative(t *testing.T) {
	snapshot := domain.StockSnapshot{"Nisbets": {"SKU-A": 3, "SKU-B": 1}}
	lines := []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 10},
		{OrderID: "o2", SKU: "SKU-A", Quantity: 10},
		{OrderID: "o3", SKU: "SKU-B", Quantity: 5},
	}

	engine.Allocate(lines, snapshot, engine.NewResolver(testSuppliers()))

	for supplier, skus := range snapshot {
		for sku, qty := range skus {
			assert.GreaterOrEqual(t, qty, 0, "%s/%s", supplier, sku)
		}
	}
}

func TestAllocateUnmatchedSKUReportedNotAllocated(t *testing.T) {
	snapshot := domain.StockSnapshot{"Nisbets": {"SKU-A": 10}}
	lines := []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-UNKNOWN", Quantity: 2},
		{OrderID: "o2", SKU: "SKU-A", Quantity: 1},
	}

	result := engine.Allocate(lines, snapshot, engine.NewResolver(testSuppliers()))

	require.Equal(t, []domain.UnmatchedLine{
		{OrderID: "o1", SKU: "SKU-UNKNOWN", Quantity: 2},
	}, result.Unmatched)

	// the unmatched line produced neither a fulfillment nor a residual
	for _, ln := range result.Fulfilled {
		assert.NotEqual(t, "o1", ln.OrderID)
	}
	for _, residual := range result.ResidualBySupplier {
		for _, ln := range residual {
			assert.NotEqual(t, "o1", ln.OrderID)
		}
	}
}

func TestAllocateNormalizesSKULookup(t *testing.T) {
	snapshot := domain.StockSnapshot{"Nisbets": {"SKU-A": 5}}
	lines := []domain.OrderLine{{OrderID: "o1", SKU: "  sku-a ", Quantity: 5}}

	result := engine.Allocate(lines, snapshot, engine.NewResolver(testSuppliers()))

	require.Len(t, result.Fulfilled, 1)
	assert.Equal(t, "SKU-A", result.Fulfilled[0].SKU)
	assert.Empty(t, result.Unmatched)
}

func TestAllocateDeterministic(t *testing.T) {
	lines := []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 7},
		{OrderID: "o2", SKU: "SKU-A", Quantity: 5},
		{OrderID: "o3", SKU: "SKU-C", Quantity: 9},
	}
	base := domain.StockSnapshot{
		"Nisbets": {"SKU-A": 8},
		"Nortons": {"SKU-C": 3},
	}

	first := engine.Allocate(lines, base.Clone(), engine.NewResolver(testSuppliers()))
	second := engine.Allocate(lines, base.Clone(), engine.NewResolver(testSuppliers()))

	assert.Equal(t, first, second)
}
