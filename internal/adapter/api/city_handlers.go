package api

import (
	"encoding/json"
	"net/http"
)

type cityRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// handleListCities returns all cities
func (s *Server) handleListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := s.cities.List(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cities)
}

// handleGetCity returns a single city
func (s *Server) handleGetCity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	city, err := s.cities.GetByID(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, city)
}

// handleCreateCity registers a new city
func (s *Server) handleCreateCity(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	city, err := s.cities.Create(r.Context(), req.Code, req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, city)
}

// handleUpdateCity changes a city's code and name
func (s *Server) handleUpdateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req cityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	city, err := s.cities.Update(r.Context(), id, req.Code, req.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, city)
}

// handleDeleteCity removes a city
func (s *Server) handleDeleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := s.cities.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
