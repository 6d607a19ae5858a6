package projection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	coreProjection "gd_valuation/pkg/core/projection"
	"gd_valuation/pkg/core/report"
	"gd_valuation/pkg/core/scenario"
	coreTariff "gd_valuation/pkg/core/tariff"
	"gd_valuation/pkg/core/validate"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// Handler holds dependencies for projection endpoints
type Handler struct {
	Source coreTariff.Source
	// UseReference pre-populates tariffs unless the request says otherwise
	UseReference bool
}

// NewHandler creates a new projection handler
func NewHandler(src coreTariff.Source, useReference bool) *Handler {
	return &Handler{Source: src, UseReference: useReference}
}

// Response is the body of POST /api/projection
type Response struct {
	ID          string                            `json:"id"`
	ProjectName string                            `json:"project_name"`
	Results     coreProjection.CalculationResults `json:"results"`
	Viability   report.Viability                  `json:"viability"`
	Charts      report.Charts                     `json:"charts"`
	Warnings    []string                          `json:"warnings"`
}

// ErrorResponse is returned for rejected scenarios
type ErrorResponse struct {
	Error      string               `json:"error"`
	Violations []validate.Violation `json:"violations,omitempty"`
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[API] Failed to encode response: %v\n", err)
	}
}

// HandleProjection runs a projection for the posted scenario
func (h *Handler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	analysis, ok := h.analyze(w, r)
	if !ok {
		return
	}

	id := uuid.NewString()
	fmt.Printf("[API] Projection %s: %s (NPV=%s, IRR=%s)\n", id, analysis.ProjectName,
		report.FormatCurrency(analysis.Results.NPV), report.FormatPercent(analysis.Results.IRR))

	warnings := analysis.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, Response{
		ID:          id,
		ProjectName: analysis.ProjectName,
		Results:     analysis.Results,
		Viability:   analysis.Viability,
		Charts:      analysis.Charts,
		Warnings:    warnings,
	})
}

// HandleExport returns the analysis as xlsx (default), html or md
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "html" && format != "md" {
		http.Error(w, fmt.Sprintf("Unsupported format: %s", format), http.StatusBadRequest)
		return
	}

	analysis, ok := h.analyze(w, r)
	if !ok {
		return
	}

	switch format {
	case "html":
		page, err := analysis.HTML()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)

	case "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, analysis.Markdown())

	default:
		f, err := analysis.BuildWorkbook()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer f.Close()

		name := report.WorkbookFileName(analysis.ProjectName)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
		if _, err := f.WriteTo(w); err != nil {
			fmt.Printf("[API] Failed to stream workbook: %v\n", err)
		}
	}
}

// analyze decodes, validates and calculates. On failure it has already
// written the response.
func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) (report.Analysis, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return report.Analysis{}, false
	}

	// 1. Decode over the reference scenario
	s, err := scenario.Parse(body, scenario.FormatJSON)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return report.Analysis{}, false
	}

	// 2. Validate
	ctx := r.Context()
	rep, err := validate.ValidateWithSource(ctx, s, h.Source)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return report.Analysis{}, false
	}
	if rep.Err() != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid scenario", Violations: rep.Errors})
		return report.Analysis{}, false
	}

	// 3. Canonical distributor ID, so every tariff tier keys the same row
	if d, ok, err := coreTariff.Resolve(ctx, h.Source, s.System.Distributor); err == nil && ok {
		s.System.Distributor = d.ID
	}

	// 4. Optional tariff pre-population
	useReference := h.UseReference
	if s.UseReferenceTariffs != nil {
		useReference = *s.UseReferenceTariffs
	}
	if useReference {
		comps, err := h.Source.Tariffs(ctx, s.System.Distributor)
		switch {
		case err == nil:
			s.Tariffs = coreTariff.Apply(s.Tariffs, comps)
		case errors.Is(err, coreTariff.ErrUnknownDistributor):
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return report.Analysis{}, false
		default:
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Erro ao buscar tarifas da distribuidora"})
			return report.Analysis{}, false
		}
	}

	// 5. Calculate
	return report.NewAnalysis(s.ProjectName, s.Calculate(), rep.Warnings), true
}
