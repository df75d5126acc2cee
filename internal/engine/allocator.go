package engine

import "fulfillment-system/internal/domain"

// Allocate splits each order line into a fulfilled-from-stock part and a
// residual owed to the supplier, decrementing snapshot in place.
//
// Lines are processed strictly in input order: when two lines want the
// same SKU and stock cannot cover both, the earlier line is satisfied
// first. Callers that need the loaded snapshot untouched must pass a
// Clone.
func Allocate(lines []domain.OrderLine, snapshot domain.StockSnapshot, resolver *Resolver) domain.AllocationResult {
	result := domain.AllocationResult{
		ResidualBySupplier: make(map[string][]domain.OrderLine),
	}

	for _, line := range lines {
		supplier, ok := resolver.Resolve(line.SKU)
		if !ok {
			resolver.ReportUnmatched(line)
			continue
		}

		sku := domain.NormalizeSKU(line.SKU)
		fromStock := snapshot.Take(supplier, sku, line.Quantity)
		residual := line.Quantity - fromStock

		if fromStock > 0 {
			result.Fulfilled = append(result.Fulfilled, domain.OrderLine{
				OrderID:  line.OrderID,
				SKU:      sku,
				Quantity: fromStock,
			})
		}
		if residual > 0 {
			result.ResidualBySupplier[supplier] = append(result.ResidualBySupplier[supplier], domain.OrderLine{
				OrderID:  line.OrderID,
				SKU:      sku,
				Quantity: residual,
			})
		}
	}

	result.Unmatched = resolver.Unmatched()
	return result
}
