/*
dto.go - API request parsing and response wrappers

PURPOSE:
  The overview envelope itself lives in the reports package (the cache
  stores its serialized form). This file holds what is left at the
  transport edge: error responses, the task balance wrapper, and the
  parsing of request strings into the engine's typed period selector.

MODE PARSING:
  This is the only place the "fiscal" / "custom" / "all" strings exist.
  They are converted here into the closed reports.PeriodSelector union;
  everything past this file dispatches on types, not strings.
*/
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arden/practice-engine/reports"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// TaskBalanceResponse wraps a task WIP-balance series.
type TaskBalanceResponse struct {
	TaskCode        string               `json:"taskCode"`
	MonthlyBalances []reports.BalanceRow `json:"monthlyBalances"`
	StartDate       string               `json:"startDate"`
	EndDate         string               `json:"endDate"`
}

// EmployeeDTO is the directory lookup response.
type EmployeeDTO struct {
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	FilterMode reports.FilterMode `json:"filterMode"`
}

// parsePeriod converts the request's mode/fiscalYear/startDate/endDate
// parameters into the typed period selector. defaultYear fills in an
// omitted fiscalYear (the current fiscal year).
func parsePeriod(r *http.Request, defaultYear int) (reports.PeriodSelector, error) {
	q := r.URL.Query()
	mode := q.Get("mode")
	if mode == "" {
		mode = "fiscal"
	}

	switch mode {
	case "fiscal":
		fy := q.Get("fiscalYear")
		switch fy {
		case "all":
			return reports.FiscalAll{}, nil
		case "":
			return reports.FiscalSingle{Year: defaultYear}, nil
		}
		year, err := strconv.Atoi(fy)
		if err != nil {
			return nil, fmt.Errorf("invalid fiscalYear %q", fy)
		}
		return reports.FiscalSingle{Year: year}, nil

	case "custom":
		start, err := parseDate(q.Get("startDate"))
		if err != nil {
			return nil, reports.ErrMissingDateRange
		}
		end, err := parseDate(q.Get("endDate"))
		if err != nil {
			return nil, reports.ErrMissingDateRange
		}
		return reports.CustomRange{Start: start, End: end}, nil

	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return time.Parse("2006-01-02", s)
}

func parseServiceLines(r *http.Request) []string {
	raw := r.URL.Query().Get("serviceLines")
	if raw == "" {
		return nil
	}
	var lines []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
