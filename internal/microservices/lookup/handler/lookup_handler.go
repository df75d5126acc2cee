package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/ingest"
	"fulfillment-system/internal/microservices/lookup/service"
)

type LookupHandler struct {
	service service.LookupServiceInterface
}

func NewLookupHandler(svc service.LookupServiceInterface) *LookupHandler {
	return &LookupHandler{service: svc}
}

func (h *LookupHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	po := r.PathValue("po_number")
	lines, err := h.service.GetBatch(r.Context(), po)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "not_found", "no batch for PO "+po)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	out := make([]domain.BatchLineDTO, len(lines))
	for i, ln := range lines {
		out[i] = domain.BatchLineDTO{OrderID: ln.OrderID, SKU: ln.SKU, Quantity: ln.Quantity}
	}
	writeJSON(w, http.StatusOK, map[string]any{"po_number": po, "lines": out})
}

func (h *LookupHandler) FindOrders(w http.ResponseWriter, r *http.Request) {
	po := r.PathValue("po_number")
	sku := r.URL.Query().Get("sku")
	if sku == "" {
		writeProblem(w, http.StatusBadRequest, "input_validation", "sku query parameter is required")
		return
	}
	orderIDs, err := h.service.FindOrders(r.Context(), po, sku)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "not_found", "no batch for PO "+po)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.LookupResponse{
		PONumber: po,
		SKU:      domain.NormalizeSKU(sku),
		OrderIDs: orderIDs,
	})
}

func (h *LookupHandler) SetLimit(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")
	var body struct {
		MaxPerParcel int `json:"max_per_parcel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if err := h.service.SetLimit(r.Context(), sku, body.MaxPerParcel); err != nil {
		if domain.KindOf(err) == domain.KindInputValidation {
			writeProblem(w, http.StatusBadRequest, "input_validation", err.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sku":            domain.NormalizeSKU(sku),
		"max_per_parcel": body.MaxPerParcel,
	})
}

func (h *LookupHandler) DeleteLimit(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")
	deleted, err := h.service.DeleteLimit(r.Context(), sku)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if !deleted {
		writeProblem(w, http.StatusNotFound, "not_found", "no limit for SKU "+sku)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LookupHandler) ListLimits(w http.ResponseWriter, r *http.Request) {
	limits, err := h.service.ListLimits(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"limits": limits})
}

// MapConsignments turns a carrier consignment export into marketplace
// tracking-import rows. Accepts CSV or JSON rows, same as the order intake.
func (h *LookupHandler) MapConsignments(w http.ResponseWriter, r *http.Request) {
	var rows []map[string]any
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		parsed, err := ingest.FromCSV(r.Body)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "input_validation", err.Error())
			return
		}
		rows = parsed
	} else {
		var body struct {
			Rows []map[string]any `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
			return
		}
		rows = body.Rows
	}

	tracking, err := ingest.MapConsignments(rows)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "input_validation", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": tracking})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
