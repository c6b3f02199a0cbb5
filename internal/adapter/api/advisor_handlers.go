package api

import (
	"encoding/json"
	"net/http"

	"github.com/portfolio-manager/internal/usecase/valuation"
)

// handleAdvice generates advice for a portfolio supplied in the request
// body. The body is a valuation result as returned by the portfolio
// endpoint.
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var portfolio valuation.Result
	if err := json.NewDecoder(r.Body).Decode(&portfolio); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(portfolio.Instruments) == 0 {
		s.writeError(w, http.StatusBadRequest, "portfolio contains no instruments")
		return
	}

	advice := s.advisor.GenerateAdvice(r.Context(), &portfolio)
	s.writeJSON(w, http.StatusOK, advice)
}

// handlePortfolioAdvice values an investor's portfolio and generates
// advice for it in one call. The referenceDate query parameter works like
// the portfolio value endpoint's.
func (s *Server) handlePortfolioAdvice(w http.ResponseWriter, r *http.Request) {
	investorID, ok := s.pathUUID(w, r, "investorId")
	if !ok {
		return
	}

	referenceDate, err := parseReferenceDate(r.URL.Query().Get("referenceDate"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	portfolio, err := s.valuation.CalculatePortfolioValue(r.Context(), investorID, referenceDate)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	advice := s.advisor.GenerateAdvice(r.Context(), portfolio)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio": portfolio,
		"advice":    advice,
	})
}
