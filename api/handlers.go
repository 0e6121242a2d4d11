/*
handlers.go - HTTP handlers for the reports endpoints

PURPOSE:
  Thin transport shims over the reports orchestrator: parse the request
  into engine types, run the pipeline, map engine errors onto HTTP
  status codes.

CALLER IDENTITY:
  Authentication and the permission matrix live upstream; the gateway
  injects the caller identity in the X-Employee-ID header. An unknown
  identity surfaces as 403 - authorization-shaped, not retried.

ERROR MAPPING:
  reports.ErrEmployeeNotFound  -> 403
  reports.ErrMissingDateRange  -> 400 (explicit message)
  parse failures               -> 400
  reports.ErrLedgerUnavailable -> 503 (after the engine's bounded retry)
  everything else              -> 500
*/
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arden/practice-engine/reports"
)

const callerHeader = "X-Employee-ID"

// Handler holds the handler dependencies.
type Handler struct {
	Orchestrator *reports.Orchestrator
	Directory    reports.EmployeeDirectory
}

func NewHandler(orchestrator *reports.Orchestrator, directory reports.EmployeeDirectory) *Handler {
	return &Handler{Orchestrator: orchestrator, Directory: directory}
}

// =============================================================================
// OVERVIEW
// =============================================================================

// GetOverview serves GET /api/reports/overview.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get(callerHeader)
	if callerID == "" {
		respondError(w, http.StatusForbidden, "missing caller identity", "no_identity")
		return
	}

	period, err := parsePeriod(r, h.Orchestrator.Calendar.Current(h.Orchestrator.Now()))
	if err != nil {
		if errors.Is(err, reports.ErrMissingDateRange) {
			respondError(w, http.StatusBadRequest, reports.ErrMissingDateRange.Error(), "missing_date_range")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error(), "invalid_request")
		return
	}

	payload, err := h.Orchestrator.Overview(r.Context(), reports.OverviewRequest{
		CallerID:     callerID,
		Period:       period,
		ServiceLines: parseServiceLines(r),
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payload)
}

// =============================================================================
// TASK WIP BALANCE
// =============================================================================

// GetTaskWIPBalance serves GET /api/tasks/{code}/wip-balance.
// Defaults to the trailing 12 months when no range is given; a malformed
// date is a validation failure, not a default.
func (h *Handler) GetTaskWIPBalance(w http.ResponseWriter, r *http.Request) {
	taskCode := chi.URLParam(r, "code")

	now := h.Orchestrator.Now()
	start := now.AddDate(0, -11, 0)
	end := now
	if raw := r.URL.Query().Get("startDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid startDate, expected YYYY-MM-DD", "invalid_request")
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid endDate, expected YYYY-MM-DD", "invalid_request")
			return
		}
		end = parsed
	}

	window := reports.MonthRangeOf(start, end)
	balances, err := h.Orchestrator.TaskWIPBalances(r.Context(), taskCode, window)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, TaskBalanceResponse{
		TaskCode:        taskCode,
		MonthlyBalances: reports.ToBalanceRows(balances),
		StartDate:       window.From.Start().Format("2006-01-02"),
		EndDate:         window.To.End().Format("2006-01-02"),
	})
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// GetEmployee serves GET /api/employees/{id}.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Directory.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, EmployeeDTO{
		Code:       emp.Code,
		Name:       emp.Name,
		Category:   emp.Category,
		FilterMode: reports.FilterModeFor(emp.Category),
	})
}

// Health serves GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reports.ErrEmployeeNotFound):
		respondError(w, http.StatusForbidden, err.Error(), "employee_not_found")
	case errors.Is(err, reports.ErrMissingDateRange):
		respondError(w, http.StatusBadRequest, err.Error(), "missing_date_range")
	case errors.Is(err, reports.ErrLedgerUnavailable):
		respondError(w, http.StatusServiceUnavailable, err.Error(), "ledger_unavailable")
	default:
		log.Printf("reports api: internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error", "internal")
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("reports api: failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}
