package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/repository"
	"github.com/m-mizutani/ofrenda/pkg/server"
)

// scriptedGateway returns fixed texts, or errors when failing is set
type scriptedGateway struct {
	failing bool
}

func (g *scriptedGateway) GenerateWelcome(ctx context.Context, name, bio string) (string, error) {
	if g.failing {
		return "", goerr.New("backend unavailable")
	}
	return "Welcome, visitor of " + name + ".", nil
}

func (g *scriptedGateway) GenerateReply(ctx context.Context, name string, history []model.HistoryEntry) (string, error) {
	if g.failing {
		return "", goerr.New("backend unavailable")
	}
	return "A generated memory.", nil
}

type testServer struct {
	*httptest.Server
	repo *repository.Memory
}

func newTestServer(t *testing.T, gw *scriptedGateway) *testServer {
	t.Helper()
	repo := repository.NewMemory()
	handler := server.New(server.NewInput{
		Repo:    repo,
		Gateway: gw,
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, repo: repo}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	gt.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		gt.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func createMemorial(t *testing.T, ts *testServer) model.Memorial {
	var m model.Memorial
	resp := ts.do(t, http.MethodPost, "/api/memorials", map[string]string{
		"ownerId": "creator-1",
		"name":    "Rosa",
		"bio":     "Loved gardening and long train journeys.",
	}, &m)
	gt.Equal(t, resp.StatusCode, http.StatusCreated)
	return m
}

type conversation struct {
	ID       string              `json:"id"`
	Messages []model.ChatMessage `json:"messages"`
}

func TestMemorialLifecycle(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	m := createMemorial(t, ts)

	var fetched model.Memorial
	resp := ts.do(t, http.MethodGet, "/api/memorials/"+string(m.ID), nil, &fetched)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, fetched.Name, "Rosa")

	var updated model.Memorial
	resp = ts.do(t, http.MethodPatch, "/api/memorials/"+string(m.ID), map[string]string{
		"bio": "A new bio",
	}, &updated)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, updated.Bio, "A new bio")

	resp = ts.do(t, http.MethodGet, "/api/memorials/"+string(model.NewMemorialID()), nil, nil)
	gt.Equal(t, resp.StatusCode, http.StatusNotFound)
}

func TestMemorialWireCasing(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	m := createMemorial(t, ts)

	// Response bodies use the same camelCase keys as request bodies.
	var raw map[string]any
	resp := ts.do(t, http.MethodGet, "/api/memorials/"+string(m.ID), nil, &raw)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	for _, key := range []string{"id", "ownerId", "name", "bio", "photoUrl", "audioUrl", "createdAt"} {
		_, ok := raw[key]
		gt.True(t, ok)
	}
	gt.Equal(t, raw["ownerId"], "creator-1")
}

func TestMemorialValidation(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})

	resp := ts.do(t, http.MethodPost, "/api/memorials", map[string]string{
		"ownerId": "creator-1",
		"name":    "   ",
	}, nil)
	gt.Equal(t, resp.StatusCode, http.StatusBadRequest)
}

func TestResponsesEndpoints(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	m := createMemorial(t, ts)

	var created model.ConditionalResponse
	resp := ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/responses", map[string]string{
		"keyword":  "garden",
		"response": "The roses were my favorite.",
	}, &created)
	gt.Equal(t, resp.StatusCode, http.StatusCreated)

	resp = ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/responses", map[string]string{
		"keyword":  "",
		"response": "never",
	}, nil)
	gt.Equal(t, resp.StatusCode, http.StatusBadRequest)

	var responses []model.ConditionalResponse
	resp = ts.do(t, http.MethodGet, "/api/memorials/"+string(m.ID)+"/responses", nil, &responses)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.A(t, responses).Length(1)

	resp = ts.do(t, http.MethodDelete, "/api/memorials/"+string(m.ID)+"/responses/"+string(created.ID), nil, nil)
	gt.Equal(t, resp.StatusCode, http.StatusNoContent)
}

func TestConversationFlow(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	m := createMemorial(t, ts)

	// canned reply registered by the creator
	resp := ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/responses", map[string]string{
		"keyword":  "garden",
		"response": "The roses were my favorite.",
	}, nil)
	gt.Equal(t, resp.StatusCode, http.StatusCreated)

	var conv conversation
	resp = ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/conversations", nil, &conv)
	gt.Equal(t, resp.StatusCode, http.StatusCreated)
	gt.A(t, conv.Messages).Length(1)
	gt.Equal(t, conv.Messages[0].Sender, model.SenderMemorial)

	// matched turn returns the canned text verbatim
	var turn struct {
		Reply model.ChatMessage `json:"reply"`
	}
	resp = ts.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", map[string]string{
		"text": "tell me about your garden",
	}, &turn)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, turn.Reply.Text, "The roses were my favorite.")

	// unmatched turn goes to the gateway
	resp = ts.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", map[string]string{
		"text": "what did you dream about?",
	}, &turn)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.Equal(t, turn.Reply.Text, "A generated memory.")

	// blank input is a silent no-op
	resp = ts.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", map[string]string{
		"text": "   ",
	}, nil)
	gt.Equal(t, resp.StatusCode, http.StatusNoContent)

	var messages []model.ChatMessage
	resp = ts.do(t, http.MethodGet, "/api/conversations/"+conv.ID+"/messages", nil, &messages)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	// welcome + 2 user turns + 2 replies
	gt.A(t, messages).Length(5)
}

func TestConversationWelcomeFallback(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{failing: true})
	m := createMemorial(t, ts)

	var conv conversation
	resp := ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/conversations", nil, &conv)
	gt.Equal(t, resp.StatusCode, http.StatusCreated)
	gt.A(t, conv.Messages).Length(1)
	// The fallback is visitor-visible content, not an error.
	gt.Equal(t, conv.Messages[0].Sender, model.SenderMemorial)
}

func TestConversationNotFound(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})

	resp := ts.do(t, http.MethodPost, "/api/conversations/unknown/messages", map[string]string{
		"text": "hello",
	}, nil)
	gt.Equal(t, resp.StatusCode, http.StatusNotFound)
}

func TestTributeEndpoints(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	m := createMemorial(t, ts)

	var posted model.Tribute
	resp := ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/tributes", map[string]string{
		"author":  "An old friend",
		"message": "We shared so many summers.",
	}, &posted)
	gt.Equal(t, resp.StatusCode, http.StatusCreated)

	resp = ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/tributes", map[string]string{
		"author":  "",
		"message": "anonymous",
	}, nil)
	gt.Equal(t, resp.StatusCode, http.StatusBadRequest)

	var tributes []model.Tribute
	resp = ts.do(t, http.MethodGet, "/api/memorials/"+string(m.ID)+"/tributes", nil, &tributes)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.A(t, tributes).Length(1)
}

func TestSocialLinkEndpoints(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{})
	m := createMemorial(t, ts)

	var link model.SocialLink
	resp := ts.do(t, http.MethodPost, "/api/memorials/"+string(m.ID)+"/links", map[string]string{
		"platform": "instagram",
		"url":      "https://instagram.com/rosa",
	}, &link)
	gt.Equal(t, resp.StatusCode, http.StatusCreated)

	var links []model.SocialLink
	resp = ts.do(t, http.MethodGet, "/api/memorials/"+string(m.ID)+"/links", nil, &links)
	gt.Equal(t, resp.StatusCode, http.StatusOK)
	gt.A(t, links).Length(1)

	resp = ts.do(t, http.MethodDelete, "/api/memorials/"+string(m.ID)+"/links/"+string(link.ID), nil, nil)
	gt.Equal(t, resp.StatusCode, http.StatusNoContent)
}
