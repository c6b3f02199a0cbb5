package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleLatestRate returns the most recent EUR reference rate for a
// currency, e.g. /api/rates/USD.
func (s *Server) handleLatestRate(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(chi.URLParam(r, "currency"))
	if len(currency) != 3 {
		s.writeError(w, http.StatusBadRequest, "currency must be a 3-letter ISO code")
		return
	}

	rate, err := s.rates.Latest(r.Context(), currency)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rate)
}
