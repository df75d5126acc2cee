package engine

import "fulfillment-system/internal/domain"

// Resolver maps SKUs to their owning supplier and collects the lines it
// could not match. Unmatched SKUs are reported, never fatal.
type Resolver struct {
	suppliers domain.SupplierMap
	unmatched []domain.UnmatchedLine
}

func NewResolver(suppliers domain.SupplierMap) *Resolver {
	return &Resolver{suppliers: suppliers}
}

// Resolve looks up the supplier for a SKU, case- and whitespace-normalized.
func (r *Resolver) Resolve(sku string) (string, bool) {
	supplier, ok := r.suppliers[domain.NormalizeSKU(sku)]
	return supplier, ok
}

// ReportUnmatched records a line whose SKU has no supplier mapping.
func (r *Resolver) ReportUnmatched(line domain.OrderLine) {
	r.unmatched = append(r.unmatched, domain.UnmatchedLine{
		OrderID:  line.OrderID,
		SKU:      line.SKU,
		Quantity: line.Quantity,
	})
}

// Unmatched returns the collected report in input order.
func (r *Resolver) Unmatched() []domain.UnmatchedLine {
	return r.unmatched
}
