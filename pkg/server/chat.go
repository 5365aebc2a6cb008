package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/usecase/chat"
)

type conversationResponse struct {
	ID       string              `json:"id"`
	Messages []model.ChatMessage `json:"messages"`
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	memorialID := model.MemorialID(r.PathValue("id"))

	m, err := s.memorials.Get(r.Context(), memorialID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	registry := chat.RegistryFunc(func(ctx context.Context) ([]*model.ConditionalResponse, error) {
		return s.repo.ListResponses(ctx, memorialID)
	})

	session := chat.New(chat.NewInput{
		Memorial: m,
		Gateway:  s.gateway,
		Registry: registry,
	}, s.chatOpts...)

	// Welcome failure falls back inside the session and is not an error here.
	if _, err := session.Start(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}

	id := s.sessions.add(session)

	writeJSON(w, http.StatusCreated, conversationResponse{
		ID:       id,
		Messages: session.Messages(),
	})
}

type postMessageRequest struct {
	Text string `json:"text"`
}

type postMessageResponse struct {
	Reply *model.ChatMessage `json:"reply"`
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "conversation not found"})
		return
	}

	var req postMessageRequest
	if err := decodeBody(r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	reply, err := session.Submit(r.Context(), req.Text)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		// Blank submissions are a silent no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, chat.ErrTurnInFlight):
		writeJSON(w, http.StatusConflict, errorBody{Error: "a reply is still being written"})
		return
	case err != nil:
		s.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, postMessageResponse{Reply: reply})
}

func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "conversation not found"})
		return
	}

	writeJSON(w, http.StatusOK, session.Messages())
}
