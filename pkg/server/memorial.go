package server

import (
	"net/http"

	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/usecase/memorial"
)

type createMemorialRequest struct {
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
	Bio     string `json:"bio"`
}

func (s *Server) createMemorial(w http.ResponseWriter, r *http.Request) {
	var req createMemorialRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	m, err := s.memorials.Create(r.Context(), memorial.CreateInput{
		OwnerID: req.OwnerID,
		Name:    req.Name,
		Bio:     req.Bio,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) getMemorial(w http.ResponseWriter, r *http.Request) {
	m, err := s.memorials.Get(r.Context(), model.MemorialID(r.PathValue("id")))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type updateMemorialRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

func (s *Server) updateMemorial(w http.ResponseWriter, r *http.Request) {
	var req updateMemorialRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	m, err := s.memorials.UpdateProfile(r.Context(), model.MemorialID(r.PathValue("id")), memorial.UpdateInput{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (s *Server) deleteMemorial(w http.ResponseWriter, r *http.Request) {
	if err := s.memorials.Delete(r.Context(), model.MemorialID(r.PathValue("id"))); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addResponseRequest struct {
	Keyword  string `json:"keyword"`
	Response string `json:"response"`
}

func (s *Server) addResponse(w http.ResponseWriter, r *http.Request) {
	var req addResponseRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	resp, err := s.memorials.AddResponse(r.Context(), model.MemorialID(r.PathValue("id")), req.Keyword, req.Response)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) listResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := s.memorials.ListResponses(r.Context(), model.MemorialID(r.PathValue("id")))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) removeResponse(w http.ResponseWriter, r *http.Request) {
	if err := s.memorials.RemoveResponse(r.Context(), model.ResponseID(r.PathValue("responseID"))); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addSocialLinkRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

func (s *Server) addSocialLink(w http.ResponseWriter, r *http.Request) {
	var req addSocialLinkRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	link, err := s.memorials.AddSocialLink(r.Context(), model.MemorialID(r.PathValue("id")), req.Platform, req.URL)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) listSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.memorials.ListSocialLinks(r.Context(), model.MemorialID(r.PathValue("id")))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (s *Server) removeSocialLink(w http.ResponseWriter, r *http.Request) {
	if err := s.memorials.RemoveSocialLink(r.Context(), model.LinkID(r.PathValue("linkID"))); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	url, err := s.memorials.UploadPhoto(r.Context(), model.MemorialID(r.PathValue("id")), r.Body)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{URL: url})
}

func (s *Server) uploadAudio(w http.ResponseWriter, r *http.Request) {
	url, err := s.memorials.UploadAudio(r.Context(), model.MemorialID(r.PathValue("id")), r.Body)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{URL: url})
}
