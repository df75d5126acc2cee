package domain

import "time"

// POBatchMessage is published to the fulfillment topic once a batch has
// been durably written to the ledger. Consumers must never see a batch
// that could still roll back.
type POBatchMessage struct {
	RunID       string         `json:"run_id"`
	PONumber    string         `json:"po_number"`
	Supplier    string         `json:"supplier"`
	Lines       []BatchLineDTO `json:"lines"`
	GeneratedAt time.Time      `json:"generated_at"`
}
