// Package ingest turns raw uploaded order rows into normalized records.
// All column aliasing lives in one table here; nothing downstream ever
// sees a raw spreadsheet header.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"fulfillment-system/internal/domain"
)

// Canonical column names.
const (
	ColOrderID    = "order_id"
	ColSKU        = "sku"
	ColQuantity   = "quantity"
	ColCompany    = "company"
	ColAddress1   = "address1"
	ColAddress2   = "address2"
	ColCity       = "city"
	ColRegion     = "region"
	ColPostalCode = "postal_code"
	ColRecipient  = "recipient"
	ColPhone      = "phone"
)

// aliases maps every header spelling seen in the order sources to its
// canonical name. Keys are lowercased and whitespace-collapsed.
var aliases = map[string]string{
	"order number":                 ColOrderID,
	"order no":                     ColOrderID,
	"order id":                     ColOrderID,
	"order_id":                     ColOrderID,
	"offer sku":                    ColSKU,
	"sku":                          ColSKU,
	"quantity":                     ColQuantity,
	"qty":                          ColQuantity,
	"shipping address company":     ColCompany,
	"company":                      ColCompany,
	"shipping address street 1":    ColAddress1,
	"street 1":                     ColAddress1,
	"address 1":                    ColAddress1,
	"shipping address street 2":    ColAddress2,
	"street 2":                     ColAddress2,
	"address 2":                    ColAddress2,
	"shipping address city":        ColCity,
	"city":                         ColCity,
	"shipping address state":       ColRegion,
	"state":                        ColRegion,
	"shipping address zip":         ColPostalCode,
	"zip":                          ColPostalCode,
	"postcode":                     ColPostalCode,
	"postal code":                  ColPostalCode,
	"shipping address first name":  ColRecipient,
	"first name":                   ColRecipient,
	"recipient":                    ColRecipient,
	"shipping address phone":       ColPhone,
	"phone":                        ColPhone,
}

var required = []string{ColOrderID, ColSKU, ColQuantity}

// CanonicalColumn resolves a raw header to its canonical name.
func CanonicalColumn(name string) (string, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	c, ok := aliases[key]
	return c, ok
}

// NormalizeRow rewrites a raw row to canonical keys, dropping columns the
// system does not know about.
func NormalizeRow(row map[string]any) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		c, ok := CanonicalColumn(k)
		if !ok {
			continue
		}
		out[c] = valueString(v)
	}
	return out
}

// Records validates and converts uploaded rows. A required column missing
// from the source entirely is fatal; rows with blank required values are
// dropped the way the upstream spreadsheet tooling drops them.
func Records(rows []map[string]any) ([]domain.OrderRecord, error) {
	if len(rows) == 0 {
		return nil, domain.E(domain.KindInputValidation, "ingest", errors.New("empty order file"))
	}

	present := map[string]bool{}
	normalized := make([]map[string]string, 0, len(rows))
	for _, raw := range rows {
		row := NormalizeRow(raw)
		for c := range row {
			present[c] = true
		}
		normalized = append(normalized, row)
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, domain.E(domain.KindInputValidation, "ingest",
			fmt.Errorf("missing required columns: %s", strings.Join(missing, ", ")))
	}

	var records []domain.OrderRecord
	for i, row := range normalized {
		if row[ColOrderID] == "" || row[ColSKU] == "" || row[ColQuantity] == "" {
			continue
		}
		qty, err := parseQuantity(row[ColQuantity])
		if err != nil {
			return nil, domain.E(domain.KindInputValidation, "ingest",
				fmt.Errorf("row %d: %w", i+1, err))
		}
		records = append(records, domain.OrderRecord{
			OrderLine: domain.OrderLine{
				OrderID:  strings.TrimSpace(row[ColOrderID]),
				SKU:      strings.TrimSpace(row[ColSKU]),
				Quantity: qty,
			},
			Shipping: domain.ShippingDetails{
				Company:    row[ColCompany],
				Address1:   row[ColAddress1],
				Address2:   row[ColAddress2],
				City:       row[ColCity],
				Region:     row[ColRegion],
				PostalCode: row[ColPostalCode],
				Recipient:  row[ColRecipient],
				Phone:      row[ColPhone],
			},
		})
	}
	return records, nil
}

// FromCSV reads a headered CSV into raw rows for Records.
func FromCSV(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, domain.E(domain.KindInputValidation, "ingest", fmt.Errorf("read header: %w", err))
	}
	var rows []map[string]any
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.E(domain.KindInputValidation, "ingest", err)
		}
		row := make(map[string]any, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("quantity must be positive, got %d", n)
		}
		return n, nil
	}
	// spreadsheet exports often render integers as 3.0
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if f <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %v", f)
	}
	return int(f), nil
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
