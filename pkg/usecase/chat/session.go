package chat

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/adapter"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/utils/logging"
)

type State string

const (
	// StateInitialLoad is the state before the welcome message is seeded
	StateInitialLoad State = "initial_load"
	// StateIdle accepts the next visitor submission
	StateIdle State = "idle"
	// StateAwaiting refuses submissions while a turn is resolving
	StateAwaiting State = "awaiting_response"
)

var (
	ErrEmptyMessage = goerr.New("empty message")
	ErrTurnInFlight = goerr.New("turn already in flight")
	ErrNotStarted   = goerr.New("session not started")
	ErrStarted      = goerr.New("session already started")
)

const (
	DefaultWelcomeFallback = "Thank you for visiting. I'm so glad you're here to remember with me. What would you like to talk about?"
	DefaultApology         = "I'm sorry, I can't find the words right now. Could you try again in a moment?"
)

// Registry supplies the current conditional responses of a memorial in
// match order. The session takes a fresh snapshot each turn, so creator
// edits made during a turn are picked up on the next one.
type Registry interface {
	Responses(ctx context.Context) ([]*model.ConditionalResponse, error)
}

// RegistryFunc adapts a function to Registry
type RegistryFunc func(ctx context.Context) ([]*model.ConditionalResponse, error)

func (f RegistryFunc) Responses(ctx context.Context) ([]*model.ConditionalResponse, error) {
	return f(ctx)
}

// Session is the turn controller of one visitor conversation. It keeps two
// transcripts: the display transcript shown to the visitor, and the
// AI-context transcript forwarded to the generation backend. Canned replies
// appear only in the former so the backend sees organic context only.
type Session struct {
	memorial *model.Memorial
	gateway  adapter.Gateway
	registry Registry

	replyDelay      time.Duration
	welcomeFallback string
	apology         string

	mu       sync.Mutex
	state    State
	messages []model.ChatMessage
	history  []model.HistoryEntry
}

// NewInput contains parameters for creating a session
type NewInput struct {
	Memorial *model.Memorial
	Gateway  adapter.Gateway
	Registry Registry
}

// Option is a functional option for Session
type Option func(*Session)

// WithReplyDelay sets a cosmetic pause before canned replies are surfaced,
// simulating typing. Zero disables it.
func WithReplyDelay(d time.Duration) Option {
	return func(s *Session) {
		s.replyDelay = d
	}
}

// WithWelcomeFallback overrides the welcome text used when generation fails
func WithWelcomeFallback(text string) Option {
	return func(s *Session) {
		s.welcomeFallback = text
	}
}

// WithApology overrides the reply text used when generation fails mid-chat
func WithApology(text string) Option {
	return func(s *Session) {
		s.apology = text
	}
}

func New(input NewInput, opts ...Option) *Session {
	s := &Session{
		memorial: input.Memorial,
		gateway:  input.Gateway,
		registry: input.Registry,

		welcomeFallback: DefaultWelcomeFallback,
		apology:         DefaultApology,

		state: StateInitialLoad,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start seeds both transcripts with the welcome message. Generation failure
// is non-fatal and never retried: the fallback text is seeded into both
// transcripts instead, so later generation calls still see a consistent
// opening turn.
func (x *Session) Start(ctx context.Context) (*model.ChatMessage, error) {
	x.mu.Lock()
	if x.state != StateInitialLoad {
		x.mu.Unlock()
		return nil, goerr.Wrap(ErrStarted, "start called twice")
	}
	// The welcome turn occupies the controller. A second Start racing past
	// the welcome call would seed a duplicate opening otherwise.
	x.state = StateAwaiting
	x.mu.Unlock()

	text, err := x.gateway.GenerateWelcome(ctx, x.memorial.Name, x.memorial.Bio)
	if err != nil {
		logging.From(ctx).Warn("welcome generation failed, using fallback",
			"memorial_id", x.memorial.ID, "error", err)
		text = x.welcomeFallback
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	welcome := model.ChatMessage{
		ID:        model.NewMessageID(),
		Sender:    model.SenderMemorial,
		Text:      text,
		Timestamp: time.Now(),
	}
	x.messages = append(x.messages, welcome)
	x.history = append(x.history, model.HistoryEntry{Role: model.RoleModel, Text: text})
	x.state = StateIdle

	return &welcome, nil
}

// Submit runs one visitor turn and returns the memorial's reply. Blank input
// is refused with ErrEmptyMessage and changes nothing. A submission while a
// turn is resolving is refused with ErrTurnInFlight, not queued.
func (x *Session) Submit(ctx context.Context, text string) (*model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyMessage, "submission rejected")
	}

	x.mu.Lock()
	switch x.state {
	case StateInitialLoad:
		x.mu.Unlock()
		return nil, goerr.Wrap(ErrNotStarted, "submission before welcome")
	case StateAwaiting:
		x.mu.Unlock()
		return nil, goerr.Wrap(ErrTurnInFlight, "submission refused")
	}

	x.messages = append(x.messages, model.ChatMessage{
		ID:        model.NewMessageID(),
		Sender:    model.SenderUser,
		Text:      text,
		Timestamp: time.Now(),
	})
	x.state = StateAwaiting
	history := slices.Clone(x.history)
	x.mu.Unlock()

	replyText, commit := x.resolveTurn(ctx, text, history)

	x.mu.Lock()
	defer x.mu.Unlock()

	reply := model.ChatMessage{
		ID:        model.NewMessageID(),
		Sender:    model.SenderMemorial,
		Text:      replyText,
		Timestamp: time.Now(),
	}
	x.messages = append(x.messages, reply)
	if commit != nil {
		x.history = commit
	}
	x.state = StateIdle

	return &reply, nil
}

// resolveTurn picks the reply text for one submission and, on the AI path,
// the history sequence to commit. A nil commit leaves the AI context
// untouched (canned replies and failed generations must not enter it).
func (x *Session) resolveTurn(ctx context.Context, input string, history []model.HistoryEntry) (string, []model.HistoryEntry) {
	responses, err := x.registry.Responses(ctx)
	if err != nil {
		// The registry reflects the last successfully observed state; a read
		// failure just means no canned reply can win this turn.
		logging.From(ctx).Warn("failed to snapshot responses",
			"memorial_id", x.memorial.ID, "error", err)
		responses = nil
	}

	if matched := Match(input, responses); matched != nil {
		x.typingPause(ctx)
		return matched.Response, nil
	}

	working := append(history, model.HistoryEntry{Role: model.RoleUser, Text: input})

	text, err := x.gateway.GenerateReply(ctx, x.memorial.Name, working)
	if err != nil {
		logging.From(ctx).Warn("reply generation failed, using apology",
			"memorial_id", x.memorial.ID, "error", err)
		return x.apology, nil
	}

	return text, append(working, model.HistoryEntry{Role: model.RoleModel, Text: text})
}

func (x *Session) typingPause(ctx context.Context) {
	if x.replyDelay <= 0 {
		return
	}
	t := time.NewTimer(x.replyDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// State returns the current controller state
func (x *Session) State() State {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state
}

// Messages returns a copy of the display transcript
func (x *Session) Messages() []model.ChatMessage {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.messages)
}

// History returns a copy of the AI-context transcript
func (x *Session) History() []model.HistoryEntry {
	x.mu.Lock()
	defer x.mu.Unlock()
	return slices.Clone(x.history)
}
