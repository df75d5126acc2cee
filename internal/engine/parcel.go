package engine

import (
	"regexp"
	"strconv"
	"strings"

	"fulfillment-system/internal/domain"
)

// Carrier import template layout. The row is positional: most columns stay
// empty, constants come from the carrier account setup.
const exportColumnCount = 32

const (
	colOrderID = iota
	colCompany1
	colCompany2
	colAddress1
	colAddress2
	colCity
	colRegion
	colPostalCode
	colServiceCode  // 8
	colParcelCount  // 9
	colWeight       // 10
	colFlagN1       // 11
	colFlagO        // 12
	colRecipient    = 23
	colPhone        = 24
	colAccountCode  = 28
	colFlagN2       = 30
	colFlagN3       = 31
)

const (
	carrierServiceCode = "372"
	carrierWeight      = "10"
	carrierAccountCode = "8130L3"
)

var legSuffix = regexp.MustCompile(`-(A|B)$`)

// ExportResult is the parcel-planning output: one positional row per valid
// order plus the orders excluded and why.
type ExportResult struct {
	Rows     [][]string
	Plans    []domain.ParcelPlan
	Excluded []domain.Exclusion
}

// ParcelPlanner merges two-leg orders, computes parcel counts under
// per-SKU packing limits and validates shipping fields for label export.
type ParcelPlanner struct {
	limits  domain.MaxPerParcelConfig
	exclude map[string]bool
}

// NewParcelPlanner builds a planner. Manual exclusions listed for one leg
// also drop the sibling leg.
func NewParcelPlanner(limits domain.MaxPerParcelConfig, excludeOrders []string) *ParcelPlanner {
	normLimits := make(domain.MaxPerParcelConfig, len(limits))
	for sku, max := range limits {
		if max > 0 {
			normLimits[domain.NormalizeSKU(sku)] = max
		}
	}
	exclude := make(map[string]bool, len(excludeOrders)*2)
	for _, id := range excludeOrders {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		exclude[id] = true
		switch {
		case strings.HasSuffix(id, "-A"):
			exclude[strings.TrimSuffix(id, "-A")+"-B"] = true
		case strings.HasSuffix(id, "-B"):
			exclude[strings.TrimSuffix(id, "-B")+"-A"] = true
		}
	}
	return &ParcelPlanner{limits: normLimits, exclude: exclude}
}

type legGroup struct {
	base string
	legA *domain.OrderRecord
	legB *domain.OrderRecord
}

// Plan produces the carrier export for all two-leg-tagged orders.
//
// A logical order split into -A and -B legs ships as two parcels by
// default; a configured max-per-parcel limit supersedes that default when
// it yields more. Single-leg orders default to one parcel. Orders in the
// manual exclusion set are dropped before any validation.
func (p *ParcelPlanner) Plan(records []domain.OrderRecord) ExportResult {
	// 1. Group legs by base order id, input order preserved.
	var order []string
	groups := make(map[string]*legGroup)
	for i := range records {
		rec := records[i]
		m := legSuffix.FindStringSubmatch(rec.OrderID)
		if m == nil || p.exclude[rec.OrderID] {
			continue
		}
		base := legSuffix.ReplaceAllString(rec.OrderID, "")
		g, ok := groups[base]
		if !ok {
			g = &legGroup{base: base}
			groups[base] = g
			order = append(order, base)
		}
		// first row per leg wins, as in the source feed
		if m[1] == "A" && g.legA == nil {
			g.legA = &rec
		} else if m[1] == "B" && g.legB == nil {
			g.legB = &rec
		}
	}

	var result ExportResult
	used := make(map[string]bool)
	for _, base := range order {
		g := groups[base]

		// 2. The A leg is canonical when both legs exist.
		canonical := g.legA
		structural := 1
		if g.legA != nil && g.legB != nil {
			structural = 2
		} else if canonical == nil {
			canonical = g.legB
		}
		if used[canonical.OrderID] {
			continue
		}
		used[canonical.OrderID] = true

		count := structural
		if max, ok := p.limits[domain.NormalizeSKU(canonical.SKU)]; ok {
			count = (canonical.Quantity + max - 1) / max
			if count < structural {
				count = structural
			}
		}

		// 3. Shipping field validation.
		if missing := missingFields(canonical); len(missing) > 0 {
			result.Excluded = append(result.Excluded, domain.Exclusion{
				OrderID: canonical.OrderID,
				Missing: missing,
			})
			continue
		}

		result.Plans = append(result.Plans, domain.ParcelPlan{
			OrderID:     canonical.OrderID,
			ParcelCount: count,
		})
		result.Rows = append(result.Rows, exportRow(canonical, count))
	}
	return result
}

func missingFields(rec *domain.OrderRecord) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"order_id", rec.OrderID},
		{"company", rec.Shipping.Company},
		{"address1", rec.Shipping.Address1},
		{"city", rec.Shipping.City},
		{"postal_code", rec.Shipping.PostalCode},
		{"recipient", rec.Shipping.Recipient},
		{"phone", rec.Shipping.Phone},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func exportRow(rec *domain.OrderRecord, parcelCount int) []string {
	row := make([]string, exportColumnCount)
	row[colOrderID] = rec.OrderID
	row[colCompany1] = rec.Shipping.Company
	row[colCompany2] = rec.Shipping.Company
	row[colAddress1] = rec.Shipping.Address1
	row[colAddress2] = rec.Shipping.Address2
	row[colCity] = rec.Shipping.City
	row[colRegion] = rec.Shipping.Region
	row[colPostalCode] = rec.Shipping.PostalCode
	row[colServiceCode] = carrierServiceCode
	row[colParcelCount] = strconv.Itoa(parcelCount)
	row[colWeight] = carrierWeight
	row[colFlagN1] = "N"
	row[colFlagO] = "O"
	row[colRecipient] = rec.Shipping.Recipient
	row[colPhone] = rec.Shipping.Phone
	row[colAccountCode] = carrierAccountCode
	row[colFlagN2] = "N"
	row[colFlagN3] = "N"
	return row
}
