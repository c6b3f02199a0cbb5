package api

import (
	"fmt"
	"net/http"
	"time"
)

// earliestReferenceDate bounds how far back a valuation may be requested
var earliestReferenceDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// handlePortfolioValue values an investor's portfolio as of a reference
// date given as ?referenceDate=YYYY-MM-DD. When the parameter is absent
// the valuation runs as of today.
func (s *Server) handlePortfolioValue(w http.ResponseWriter, r *http.Request) {
	investorID, ok := s.pathUUID(w, r, "investorId")
	if !ok {
		return
	}

	referenceDate, err := parseReferenceDate(r.URL.Query().Get("referenceDate"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.valuation.CalculatePortfolioValue(r.Context(), investorID, referenceDate)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// parseReferenceDate validates the reference-date query parameter. Dates
// before 2000-01-01 or in the future are rejected.
func parseReferenceDate(raw string) (time.Time, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if raw == "" {
		return today, nil
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid referenceDate %q: expected YYYY-MM-DD", raw)
	}
	if date.Before(earliestReferenceDate) {
		return time.Time{}, fmt.Errorf("referenceDate %s is before the earliest supported date 2000-01-01", raw)
	}
	if date.After(today) {
		return time.Time{}, fmt.Errorf("referenceDate %s is in the future", raw)
	}
	return date, nil
}
