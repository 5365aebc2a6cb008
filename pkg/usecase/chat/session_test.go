package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/ofrenda/pkg/adapter"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"github.com/m-mizutani/ofrenda/pkg/usecase/chat"
)

// mockGateway scripts welcome/reply generation and records the history
// sequences it was called with
type mockGateway struct {
	welcomeText string
	welcomeErr  error
	replyText   string
	replyErr    error

	welcomeCalls int
	replyCalls   int
	histories    [][]model.HistoryEntry
}

func (m *mockGateway) GenerateWelcome(ctx context.Context, name, bio string) (string, error) {
	m.welcomeCalls++
	if m.welcomeErr != nil {
		return "", m.welcomeErr
	}
	return m.welcomeText, nil
}

func (m *mockGateway) GenerateReply(ctx context.Context, name string, history []model.HistoryEntry) (string, error) {
	m.replyCalls++
	copied := make([]model.HistoryEntry, len(history))
	copy(copied, history)
	m.histories = append(m.histories, copied)
	if m.replyErr != nil {
		return "", m.replyErr
	}
	return m.replyText, nil
}

func staticRegistry(responses ...*model.ConditionalResponse) chat.Registry {
	return chat.RegistryFunc(func(ctx context.Context) ([]*model.ConditionalResponse, error) {
		return responses, nil
	})
}

func newTestSession(gw adapter.Gateway, registry chat.Registry, opts ...chat.Option) *chat.Session {
	return chat.New(chat.NewInput{
		Memorial: &model.Memorial{
			ID:   model.NewMemorialID(),
			Name: "Rosa",
			Bio:  "Loved gardening and long train journeys.",
		},
		Gateway:  gw,
		Registry: registry,
	}, opts...)
}

func TestSessionWelcomeSeedsBothTranscripts(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "Hello, dear visitor."}
	session := newTestSession(gw, staticRegistry())

	gt.Equal(t, session.State(), chat.StateInitialLoad)

	welcome, err := session.Start(ctx)
	gt.NoError(t, err)
	gt.Equal(t, welcome.Sender, model.SenderMemorial)
	gt.Equal(t, welcome.Text, "Hello, dear visitor.")
	gt.Equal(t, session.State(), chat.StateIdle)

	messages := session.Messages()
	gt.A(t, messages).Length(1)
	gt.Equal(t, messages[0].Text, "Hello, dear visitor.")

	history := session.History()
	gt.A(t, history).Length(1)
	gt.Equal(t, history[0].Role, model.RoleModel)
	gt.Equal(t, history[0].Text, "Hello, dear visitor.")
}

func TestSessionWelcomeFallback(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeErr: goerr.New("backend down")}
	session := newTestSession(gw, staticRegistry())

	welcome, err := session.Start(ctx)
	gt.NoError(t, err)
	gt.Equal(t, welcome.Text, chat.DefaultWelcomeFallback)
	gt.Equal(t, session.State(), chat.StateIdle)

	// The fallback is seeded identically into both transcripts so later
	// generations start from a consistent opening turn.
	messages := session.Messages()
	history := session.History()
	gt.A(t, messages).Length(1)
	gt.A(t, history).Length(1)
	gt.Equal(t, messages[0].Text, history[0].Text)
}

func TestSessionStartTwice(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "hi"}
	session := newTestSession(gw, staticRegistry())

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	_, err = session.Start(ctx)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, chat.ErrStarted))
	gt.Equal(t, gw.welcomeCalls, 1)
}

func TestSessionCannedReply(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome"}
	session := newTestSession(gw, staticRegistry(
		&model.ConditionalResponse{ID: "r1", Keyword: "garden", Response: "The roses were my favorite."},
	))

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	reply, err := session.Submit(ctx, "Tell me about your garden")
	gt.NoError(t, err)
	gt.Equal(t, reply.Sender, model.SenderMemorial)
	gt.Equal(t, reply.Text, "The roses were my favorite.")

	// user message + canned reply on display, nothing new in AI context
	gt.A(t, session.Messages()).Length(3)
	gt.A(t, session.History()).Length(1)
	gt.Equal(t, gw.replyCalls, 0)
}

func TestSessionCannedTurnNeverEntersContext(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome", replyText: "generated"}
	session := newTestSession(gw, staticRegistry(
		&model.ConditionalResponse{ID: "r1", Keyword: "travel", Response: "canned"},
	))

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	// matched turn, then unmatched turn
	_, err = session.Submit(ctx, "did you like traveling?")
	gt.NoError(t, err)
	_, err = session.Submit(ctx, "what was your favorite meal?")
	gt.NoError(t, err)

	gt.Equal(t, gw.replyCalls, 1)

	// The gateway must see exactly: welcome entry + second turn's user entry.
	// Nothing from the matched turn leaks in.
	sent := gw.histories[0]
	gt.A(t, sent).Length(2)
	gt.Equal(t, sent[0], model.HistoryEntry{Role: model.RoleModel, Text: "welcome"})
	gt.Equal(t, sent[1], model.HistoryEntry{Role: model.RoleUser, Text: "what was your favorite meal?"})
}

func TestSessionGeneratedReply(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome", replyText: "I remember that fondly."}
	session := newTestSession(gw, staticRegistry())

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	reply, err := session.Submit(ctx, "do you remember the lake?")
	gt.NoError(t, err)
	gt.Equal(t, reply.Text, "I remember that fondly.")

	history := session.History()
	gt.A(t, history).Length(3)
	gt.Equal(t, history[1], model.HistoryEntry{Role: model.RoleUser, Text: "do you remember the lake?"})
	gt.Equal(t, history[2], model.HistoryEntry{Role: model.RoleModel, Text: "I remember that fondly."})
}

func TestSessionEmptySubmissionNoOp(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome"}
	session := newTestSession(gw, staticRegistry())

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := session.Submit(ctx, input)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, chat.ErrEmptyMessage))
	}

	gt.A(t, session.Messages()).Length(1)
	gt.A(t, session.History()).Length(1)
	gt.Equal(t, session.State(), chat.StateIdle)
	gt.Equal(t, gw.replyCalls, 0)
}

func TestSessionGatewayFailureKeepsContext(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome", replyErr: goerr.New("timeout")}
	session := newTestSession(gw, staticRegistry())

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	before := session.History()

	reply, err := session.Submit(ctx, "are you there?")
	gt.NoError(t, err)
	gt.Equal(t, reply.Text, chat.DefaultApology)

	// The failed exchange is not recorded as AI context.
	after := session.History()
	gt.Equal(t, len(after), len(before))
	gt.Equal(t, session.State(), chat.StateIdle)

	// Display transcript still shows the turn: user message + apology.
	messages := session.Messages()
	gt.A(t, messages).Length(3)
	gt.Equal(t, messages[2].Text, chat.DefaultApology)
}

// blockingGateway parks GenerateReply until released, to hold a session in
// the awaiting state
type blockingGateway struct {
	entered   chan struct{}
	release   chan struct{}
	replyText string

	replyCalls int
}

func (m *blockingGateway) GenerateWelcome(ctx context.Context, name, bio string) (string, error) {
	return "welcome", nil
}

func (m *blockingGateway) GenerateReply(ctx context.Context, name string, history []model.HistoryEntry) (string, error) {
	m.replyCalls++
	m.entered <- struct{}{}
	<-m.release
	return m.replyText, nil
}

func TestSessionRefusesConcurrentTurn(t *testing.T) {
	ctx := context.Background()

	gw := &blockingGateway{
		entered:   make(chan struct{}, 1),
		release:   make(chan struct{}),
		replyText: "done",
	}
	session := newTestSession(gw, staticRegistry())

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := session.Submit(ctx, "first")
		gt.NoError(t, err)
	}()

	// Wait until the first turn is inside the gateway call
	<-gw.entered

	gt.Equal(t, session.State(), chat.StateAwaiting)

	_, err = session.Submit(ctx, "second")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, chat.ErrTurnInFlight))

	close(gw.release)
	<-done

	// Only the first turn ran: welcome + first user + first reply.
	gt.A(t, session.Messages()).Length(3)
	gt.Equal(t, gw.replyCalls, 1)
}

// blockingWelcomeGateway parks GenerateWelcome until released, to hold a
// session mid-start
type blockingWelcomeGateway struct {
	entered chan struct{}
	release chan struct{}

	welcomeCalls int
}

func (m *blockingWelcomeGateway) GenerateWelcome(ctx context.Context, name, bio string) (string, error) {
	m.welcomeCalls++
	m.entered <- struct{}{}
	<-m.release
	return "welcome", nil
}

func (m *blockingWelcomeGateway) GenerateReply(ctx context.Context, name string, history []model.HistoryEntry) (string, error) {
	return "generated", nil
}

func TestSessionRefusesConcurrentStart(t *testing.T) {
	ctx := context.Background()

	gw := &blockingWelcomeGateway{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	session := newTestSession(gw, staticRegistry())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := session.Start(ctx)
		gt.NoError(t, err)
	}()

	// Wait until the first start is inside the welcome call
	<-gw.entered

	_, err := session.Start(ctx)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, chat.ErrStarted))

	close(gw.release)
	<-done

	// Exactly one welcome seeded, by the first start.
	gt.Equal(t, gw.welcomeCalls, 1)
	gt.A(t, session.Messages()).Length(1)
	gt.A(t, session.History()).Length(1)
	gt.Equal(t, session.State(), chat.StateIdle)
}

func TestSessionRegistrySnapshotPerTurn(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome", replyText: "generated"}

	// A mutable registry: the creator adds a response between turns.
	var responses []*model.ConditionalResponse
	registry := chat.RegistryFunc(func(ctx context.Context) ([]*model.ConditionalResponse, error) {
		return responses, nil
	})
	session := newTestSession(gw, registry)

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	reply, err := session.Submit(ctx, "tell me about the garden")
	gt.NoError(t, err)
	gt.Equal(t, reply.Text, "generated")

	responses = append(responses, &model.ConditionalResponse{
		ID: "r1", Keyword: "garden", Response: "canned now",
	})

	reply, err = session.Submit(ctx, "the garden again please")
	gt.NoError(t, err)
	gt.Equal(t, reply.Text, "canned now")
}

func TestSessionRegistryFailureFallsThrough(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome", replyText: "generated"}
	registry := chat.RegistryFunc(func(ctx context.Context) ([]*model.ConditionalResponse, error) {
		return nil, goerr.New("storage unavailable")
	})
	session := newTestSession(gw, registry)

	_, err := session.Start(ctx)
	gt.NoError(t, err)

	reply, err := session.Submit(ctx, "hello there")
	gt.NoError(t, err)
	gt.Equal(t, reply.Text, "generated")
}

func TestSessionSubmitBeforeStart(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{welcomeText: "welcome"}
	session := newTestSession(gw, staticRegistry())

	_, err := session.Submit(ctx, "hello?")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, chat.ErrNotStarted))
}
