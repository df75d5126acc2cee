package domain

import "strings"

// OrderLine is one (order, SKU, quantity) demand record.
type OrderLine struct {
	OrderID  string
	SKU      string
	Quantity int
}

// ShippingDetails carries the address fields needed for carrier label export.
type ShippingDetails struct {
	Company    string
	Address1   string
	Address2   string
	City       string
	Region     string
	PostalCode string
	Recipient  string
	Phone      string
}

// OrderRecord is a fully normalized row from the uploaded order file.
type OrderRecord struct {
	OrderLine
	Shipping ShippingDetails
}

// SupplierMap maps a normalized SKU to its owning supplier name.
type SupplierMap map[string]string

// NewSupplierMap builds a lookup table with normalized SKU keys.
func NewSupplierMap(raw map[string]string) SupplierMap {
	m := make(SupplierMap, len(raw))
	for sku, supplier := range raw {
		m[NormalizeSKU(sku)] = strings.TrimSpace(supplier)
	}
	return m
}

// StockSnapshot is the per-supplier on-hand stock, mutated during a run.
type StockSnapshot map[string]map[string]int

// Clone returns a deep copy; the allocator works on a copy so a failed run
// never leaks decrements into the loaded snapshot.
func (s StockSnapshot) Clone() StockSnapshot {
	out := make(StockSnapshot, len(s))
	for supplier, skus := range s {
		m := make(map[string]int, len(skus))
		for sku, qty := range skus {
			m[sku] = qty
		}
		out[supplier] = m
	}
	return out
}

// Available reports on-hand quantity, zero for unknown supplier or SKU.
func (s StockSnapshot) Available(supplier, sku string) int {
	return s[supplier][sku]
}

// Take decrements stock by up to qty and returns the amount actually taken.
// Quantities never go below zero.
func (s StockSnapshot) Take(supplier, sku string, qty int) int {
	available := s[supplier][sku]
	if available <= 0 || qty <= 0 {
		return 0
	}
	taken := qty
	if available < qty {
		taken = available
	}
	s[supplier][sku] = available - taken
	return taken
}

// UnmatchedLine is an order line whose SKU has no supplier mapping.
type UnmatchedLine struct {
	OrderID  string `json:"order_id"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// AllocationResult is the outcome of reconciling order lines against stock.
type AllocationResult struct {
	Fulfilled          []OrderLine
	ResidualBySupplier map[string][]OrderLine
	Unmatched          []UnmatchedLine
}

// POBatch is a bounded group of residual lines issued to one supplier
// under one purchase-order number.
type POBatch struct {
	PONumber string
	Supplier string
	Lines    []OrderLine
}

// OrderIDs returns the distinct order ids in the batch, first-seen order.
func (b POBatch) OrderIDs() []string {
	seen := make(map[string]bool, len(b.Lines))
	var ids []string
	for _, ln := range b.Lines {
		if !seen[ln.OrderID] {
			seen[ln.OrderID] = true
			ids = append(ids, ln.OrderID)
		}
	}
	return ids
}

// MaxPerParcelConfig maps a normalized SKU to its max units per parcel.
type MaxPerParcelConfig map[string]int

// ParcelPlan is the planned parcel count for one exported order.
type ParcelPlan struct {
	OrderID     string
	ParcelCount int
}

// Exclusion names an order dropped from the parcel export and why.
type Exclusion struct {
	OrderID string   `json:"order_id"`
	Missing []string `json:"missing_fields"`
}

// NormalizeSKU applies the case/whitespace normalization used for every
// SKU comparison in the system.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
