package domain

// AllocationRequest is the uploaded order batch: one object per spreadsheet
// row, keyed by the raw column names. Aliasing to canonical names happens
// in the ingest step, not here.
type AllocationRequest struct {
	Rows []map[string]any `json:"rows"`
}

type OrderLineDTO struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// OrderBlock groups the lines of one order for the fulfillment summary.
type OrderBlock struct {
	OrderID string         `json:"order_id"`
	Lines   []OrderLineDTO `json:"lines"`
}

type BatchLineDTO struct {
	OrderID  string `json:"order_id"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type POBatchDTO struct {
	PONumber   string         `json:"po_number"`
	Supplier   string         `json:"supplier"`
	OrderCount int            `json:"order_count"`
	Lines      []BatchLineDTO `json:"lines"`
}

type ParcelExportDTO struct {
	Rows     [][]string  `json:"rows"`
	Excluded []Exclusion `json:"excluded"`
}

type AllocationResponse struct {
	RunID              string                  `json:"run_id"`
	FulfilledFromStock []OrderBlock            `json:"fulfilled_from_stock"`
	ToOrderBySupplier  map[string][]OrderBlock `json:"to_order_by_supplier"`
	Batches            []POBatchDTO            `json:"batches"`
	ParcelExport       ParcelExportDTO         `json:"parcel_export"`
	Unmatched          []UnmatchedLine         `json:"unmatched,omitempty"`
}

type LookupResponse struct {
	PONumber string   `json:"po_number"`
	SKU      string   `json:"sku"`
	OrderIDs []string `json:"order_ids"`
}
