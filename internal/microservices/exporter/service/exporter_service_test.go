package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fulfillment-system/internal/domain"
)

func TestRenderOrderBlocks(t *testing.T) {
	doc := RenderOrderBlocks([]domain.BatchLineDTO{
		{OrderID: "X100-A", SKU: "SKU-A", Quantity: 2},
		{OrderID: "X100-A", SKU: "SKU-B", Quantity: 1},
		{OrderID: "X200-A", SKU: "SKU-C", Quantity: 4},
	})

	want := "Order Number: X100-A\n" +
		"  2x SKU-A\n" +
		"  1x SKU-B\n" +
		"\n------------------------------\n\n" +
		"Order Number: X200-A\n" +
		"  4x SKU-C\n" +
		"\n------------------------------\n"
	assert.Equal(t, want, doc)
}

func TestRenderOrderBlocksEmpty(t *testing.T) {
	assert.Equal(t, "", RenderOrderBlocks(nil))
}

func TestCountOrders(t *testing.T) {
	n := countOrders([]domain.BatchLineDTO{
		{OrderID: "X100-A", SKU: "SKU-A", Quantity: 2},
		{OrderID: "X100-A", SKU: "SKU-B", Quantity: 1},
		{OrderID: "X200-A", SKU: "SKU-C", Quantity: 4},
	})
	assert.Equal(t, 2, n)
}
