package tariff

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	coreTariff "gd_valuation/pkg/core/tariff"
)

// TariffResponse is the body of GET /api/tariffs
type TariffResponse struct {
	Distributor string                `json:"distributor"`
	Components  coreTariff.Components `json:"components"`
}

// Handler holds dependencies for reference data endpoints
type Handler struct {
	Source coreTariff.Source
}

// NewHandler creates a new tariff handler
func NewHandler(src coreTariff.Source) *Handler {
	return &Handler{Source: src}
}

// HandleDistributors lists the distributor registry
func (h *Handler) HandleDistributors(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	ds, err := h.Source.Distributors(r.Context())
	if err != nil {
		fmt.Printf("[API] Distributor listing failed: %v\n", err)
		http.Error(w, "Failed to list distributors", http.StatusServiceUnavailable)
		return
	}
	if ds == nil {
		ds = []coreTariff.Distributor{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ds)
}

// HandleTariffs returns the reference tariff components for ?distributor=ID
func (h *Handler) HandleTariffs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	id := strings.TrimSpace(r.URL.Query().Get("distributor"))
	if id == "" {
		http.Error(w, "Missing distributor", http.StatusBadRequest)
		return
	}

	comps, err := h.Source.Tariffs(r.Context(), id)
	if err != nil {
		if errors.Is(err, coreTariff.ErrUnknownDistributor) {
			http.Error(w, fmt.Sprintf("Distributor not found: %s", id), http.StatusNotFound)
			return
		}
		fmt.Printf("[API] Tariff lookup failed for %s: %v\n", id, err)
		http.Error(w, "Erro ao buscar tarifas da distribuidora", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TariffResponse{Distributor: id, Components: comps})
}
