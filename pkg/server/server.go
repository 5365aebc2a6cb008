package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/adapter"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/repository"
	"github.com/m-mizutani/ofrenda/pkg/usecase/chat"
	"github.com/m-mizutani/ofrenda/pkg/usecase/memorial"
	"github.com/m-mizutani/ofrenda/pkg/usecase/tribute"
	"github.com/m-mizutani/ofrenda/pkg/utils/logging"
)

// Server exposes the memorial service over HTTP
type Server struct {
	repo      repository.Repository
	gateway   adapter.Gateway
	memorials *memorial.UseCase
	tributes  *tribute.UseCase
	sessions  *sessionManager
	chatOpts  []chat.Option

	mux *http.ServeMux
}

// NewInput contains dependencies for the server
type NewInput struct {
	Repo    repository.Repository
	Gateway adapter.Gateway
	Storage adapter.Storage

	// ChatOptions are applied to every new conversation session
	ChatOptions []chat.Option
}

// New creates the HTTP server and wires its routes
func New(input NewInput) *Server {
	memorialOpts := []memorial.Option{}
	if input.Storage != nil {
		memorialOpts = append(memorialOpts, memorial.WithStorage(input.Storage))
	}

	s := &Server{
		repo:      input.Repo,
		gateway:   input.Gateway,
		memorials: memorial.New(input.Repo, memorialOpts...),
		tributes:  tribute.New(input.Repo),
		sessions:  newSessionManager(),
		chatOpts:  input.ChatOptions,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/memorials", s.createMemorial)
	s.mux.HandleFunc("GET /api/memorials/{id}", s.getMemorial)
	s.mux.HandleFunc("PATCH /api/memorials/{id}", s.updateMemorial)
	s.mux.HandleFunc("DELETE /api/memorials/{id}", s.deleteMemorial)

	s.mux.HandleFunc("POST /api/memorials/{id}/responses", s.addResponse)
	s.mux.HandleFunc("GET /api/memorials/{id}/responses", s.listResponses)
	s.mux.HandleFunc("DELETE /api/memorials/{id}/responses/{responseID}", s.removeResponse)

	s.mux.HandleFunc("POST /api/memorials/{id}/links", s.addSocialLink)
	s.mux.HandleFunc("GET /api/memorials/{id}/links", s.listSocialLinks)
	s.mux.HandleFunc("DELETE /api/memorials/{id}/links/{linkID}", s.removeSocialLink)

	s.mux.HandleFunc("POST /api/memorials/{id}/photo", s.uploadPhoto)
	s.mux.HandleFunc("POST /api/memorials/{id}/audio", s.uploadAudio)

	s.mux.HandleFunc("POST /api/memorials/{id}/tributes", s.postTribute)
	s.mux.HandleFunc("GET /api/memorials/{id}/tributes", s.listTributes)

	s.mux.HandleFunc("POST /api/memorials/{id}/conversations", s.createConversation)
	s.mux.HandleFunc("POST /api/conversations/{id}/messages", s.postMessage)
	s.mux.HandleFunc("GET /api/conversations/{id}/messages", s.getMessages)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logging.Default().Warn("failed to encode response", "error", err)
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// handleError maps domain errors to HTTP statuses
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, model.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		logging.From(r.Context()).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(model.ErrInvalidInput, "invalid request body")
	}
	return nil
}
