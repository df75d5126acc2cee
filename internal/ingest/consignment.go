package ingest

import (
	"fmt"
	"strings"

	"fulfillment-system/internal/domain"
)

// TrackingRow is one line of the marketplace tracking-number import built
// from a carrier consignment export.
type TrackingRow struct {
	OrderID        string `json:"order_id"`
	CarrierCode    string `json:"carrier_code"`
	CarrierName    string `json:"carrier_name"`
	CarrierURL     string `json:"carrier_url"`
	TrackingNumber string `json:"tracking_number"`
}

// Consignment export column headers, as the carrier emits them.
const (
	consignmentRef      = "dpd customers first ref"
	consignmentNumber   = "dpd consignment number"
	consignmentTrackURL = "curl"
)

// MapConsignments converts carrier consignment rows into tracking-import
// rows. Missing source columns are fatal input validation.
func MapConsignments(rows []map[string]any) ([]TrackingRow, error) {
	if len(rows) == 0 {
		return nil, domain.E(domain.KindInputValidation, "consignments", fmt.Errorf("empty consignment file"))
	}

	lowered := make([]map[string]string, 0, len(rows))
	present := map[string]bool{}
	for _, raw := range rows {
		row := make(map[string]string, len(raw))
		for k, v := range raw {
			key := strings.Join(strings.Fields(strings.ToLower(k)), " ")
			row[key] = valueString(v)
			present[key] = true
		}
		lowered = append(lowered, row)
	}

	var missing []string
	for _, c := range []string{consignmentRef, consignmentNumber, consignmentTrackURL} {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, domain.E(domain.KindInputValidation, "consignments",
			fmt.Errorf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	out := make([]TrackingRow, 0, len(lowered))
	for _, row := range lowered {
		if row[consignmentRef] == "" {
			continue
		}
		out = append(out, TrackingRow{
			OrderID:        row[consignmentRef],
			CarrierCode:    "DPD",
			CarrierName:    "DPD",
			CarrierURL:     row[consignmentTrackURL],
			TrackingNumber: row[consignmentNumber],
		})
	}
	return out, nil
}
