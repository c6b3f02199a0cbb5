package api

import (
	"encoding/json"
	"net/http"
)

type investorRequest struct {
	Code string `json:"code"`
}

// handleListInvestors returns all investors
func (s *Server) handleListInvestors(w http.ResponseWriter, r *http.Request) {
	investors, err := s.investors.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, investors)
}

// handleGetInvestor returns a single investor
func (s *Server) handleGetInvestor(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	investor, err := s.investors.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, investor)
}

// handleCreateInvestor registers a new investor
func (s *Server) handleCreateInvestor(w http.ResponseWriter, r *http.Request) {
	var req investorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	investor, err := s.investors.Create(r.Context(), req.Code)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, investor)
}

// handleUpdateInvestor changes an investor's code
func (s *Server) handleUpdateInvestor(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req investorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	investor, err := s.investors.Update(r.Context(), id, req.Code)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, investor)
}

// handleDeleteInvestor removes an investor
func (s *Server) handleDeleteInvestor(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.investors.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListInvestorInvestments returns the positions held by an investor
func (s *Server) handleListInvestorInvestments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	links, err := s.investors.ListInvestments(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, links)
}
