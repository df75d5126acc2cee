package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"fulfillment-system/internal/domain"
	"fulfillment-system/internal/ingest"
	"fulfillment-system/internal/microservices/allocation/service"
)

type AllocationHandler struct {
	service service.AllocationServiceInterface
}

func NewAllocationHandler(s service.AllocationServiceInterface) *AllocationHandler {
	return &AllocationHandler{service: s}
}

// ProcessBatch accepts one uploaded order batch, JSON rows or raw CSV,
// and returns the full allocation output.
func (h *AllocationHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req domain.AllocationRequest

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "text/csv"):
		rows, err := ingest.FromCSV(r.Body)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "input_validation", err.Error())
			return
		}
		req.Rows = rows
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
			return
		}
	}

	resp, err := h.service.Process(r.Context(), req)
	if err != nil {
		kind := domain.KindOf(err)
		writeProblem(w, statusFor(kind), kind.String(), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInputValidation:
		return http.StatusBadRequest
	case domain.KindBatchCollision:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem emits the shared error shape: machine-readable type plus
// human-readable detail.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
