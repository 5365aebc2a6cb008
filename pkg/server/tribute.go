package server

import (
	"net/http"

	"github.com/m-mizutani/ofrenda/pkg/model"
)

type postTributeRequest struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

func (s *Server) postTribute(w http.ResponseWriter, r *http.Request) {
	var req postTributeRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	tribute, err := s.tributes.Post(r.Context(), model.MemorialID(r.PathValue("id")), req.Author, req.Message)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tribute)
}

func (s *Server) listTributes(w http.ResponseWriter, r *http.Request) {
	tributes, err := s.tributes.List(r.Context(), model.MemorialID(r.PathValue("id")))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tributes)
}
