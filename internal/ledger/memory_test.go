package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/ledger"
)

func TestPutThenGetRoundTrip(t *testing.T) {
	led := ledger.NewMemory()
	lines := []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 2},
		{OrderID: "o2", SKU: "SKU-B", Quantity: 5},
	}
	require.NoError(t, led.Put(context.Background(), "CB-NISBETS-20250115-001", lines))

	got, err := led.Get(context.Background(), "CB-NISBETS-20250115-001")
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestPutRejectsDuplicatePONumber(t *testing.T) {
	led := ledger.NewMemory()
	first := []domain.OrderLine{{OrderID: "o1", SKU: "SKU-A", Quantity: 1}}
	require.NoError(t, led.Put(context.Background(), "CB-NISBETS-20250115-001", first))

	err := led.Put(context.Background(), "CB-NISBETS-20250115-001",
		[]domain.OrderLine{{OrderID: "o2", SKU: "SKU-B", Quantity: 9}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateKey))

	// append-only: the first write stays intact
	got, gerr := led.Get(context.Background(), "CB-NISBETS-20250115-001")
	require.NoError(t, gerr)
	assert.Equal(t, first, got)
}

func TestGetUnknownPO(t *testing.T) {
	led := ledger.NewMemory()

	_, err := led.Get(context.Background(), "CB-NISBETS-20250115-099")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetReturnsCopy(t *testing.T) {
	led := ledger.NewMemory()
	require.NoError(t, led.Put(context.Background(), "CB-NISBETS-20250115-001",
		[]domain.OrderLine{{OrderID: "o1", SKU: "SKU-A", Quantity: 1}}))

	got, err := led.Get(context.Background(), "CB-NISBETS-20250115-001")
	require.NoError(t, err)
	got[0].Quantity = 99

	again, err := led.Get(context.Background(), "CB-NISBETS-20250115-001")
	require.NoError(t, err)
	assert.Equal(t, 1, again[0].Quantity)
}

func TestFindOrdersForSKU(t *testing.T) {
	led := ledger.NewMemory()
	require.NoError(t, led.Put(context.Background(), "CB-NISBETS-20250115-001", []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 2},
		{OrderID: "o2", SKU: "SKU-B", Quantity: 1},
		{OrderID: "o3", SKU: "SKU-A", Quantity: 4},
	}))

	orderIDs, err := led.Find(context.Background(), "CB-NISBETS-20250115-001", "SKU-A")
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o3"}, orderIDs)
}

func TestFindNormalizesSKU(t *testing.T) {
	led := ledger.NewMemory()
	require.NoError(t, led.Put(context.Background(), "CB-NISBETS-20250115-001", []domain.OrderLine{
		{OrderID: "o1", SKU: " sku-a ", Quantity: 2},
	}))

	orderIDs, err := led.Find(context.Background(), "CB-NISBETS-20250115-001", "SKU-A")
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, orderIDs)
}

func TestFindNoMatchesIsEmptyNotError(t *testing.T) {
	led := ledger.NewMemory()
	require.NoError(t, led.Put(context.Background(), "CB-NISBETS-20250115-001", []domain.OrderLine{
		{OrderID: "o1", SKU: "SKU-A", Quantity: 2},
	}))

	orderIDs, err := led.Find(context.Background(), "CB-NISBETS-20250115-001", "SKU-Z")
	require.NoError(t, err)
	assert.NotNil(t, orderIDs)
	assert.Empty(t, orderIDs)
}

func TestFindUnknownPO(t *testing.T) {
	led := ledger.NewMemory()

	_, err := led.Find(context.Background(), "CB-NISBETS-20250115-099", "SKU-A")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
