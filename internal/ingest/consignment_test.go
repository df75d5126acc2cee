package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/ingest"
)

func TestMapConsignments(t *testing.T) {
	rows, err := ingest.MapConsignments([]map[string]any{
		{
			"DPD Customers First Ref": "X100-A",
			"DPD Consignment number":  "15501234567890",
			"cURL":                    "https://track.dpd.ie/15501234567890",
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, ingest.TrackingRow{
		OrderID:        "X100-A",
		CarrierCode:    "DPD",
		CarrierName:    "DPD",
		CarrierURL:     "https://track.dpd.ie/15501234567890",
		TrackingNumber: "15501234567890",
	}, rows[0])
}

func TestMapConsignmentsSkipsRowsWithoutRef(t *testing.T) {
	rows, err := ingest.MapConsignments([]map[string]any{
		{"DPD Customers First Ref": "X100-A", "DPD Consignment number": "111", "cURL": "u1"},
		{"DPD Customers First Ref": "", "DPD Consignment number": "222", "cURL": "u2"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X100-A", rows[0].OrderID)
}

func TestMapConsignmentsMissingColumnFatal(t *testing.T) {
	_, err := ingest.MapConsignments([]map[string]any{
		{"DPD Customers First Ref": "X100-A", "cURL": "u1"},
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindInputValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "dpd consignment number")
}

func TestMapConsignmentsEmptyInput(t *testing.T) {
	_, err := ingest.MapConsignments(nil)
	require.Error(t, err)
	assert.Equal(t, domain.KindInputValidation, domain.KindOf(err))
}
