package handler

import "net/http"

func Router(h *LookupHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /pos/{po_number}", h.GetBatch)
	mux.HandleFunc("GET /pos/{po_number}/orders", h.FindOrders)
	mux.HandleFunc("GET /sku-limits", h.ListLimits)
	mux.HandleFunc("PUT /sku-limits/{sku}", h.SetLimit)
	mux.HandleFunc("DELETE /sku-limits/{sku}", h.DeleteLimit)
	mux.HandleFunc("POST /consignments", h.MapConsignments)
	return mux
}
