package adapter

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
	"google.golang.org/genai"
)

// Gateway is the text-generation backend consumed by the turn controller.
// Both operations are single-shot request/response calls; the caller handles
// failures with local fallbacks and never retries.
type Gateway interface {
	// GenerateWelcome produces the opening message of a conversation
	GenerateWelcome(ctx context.Context, name, bio string) (string, error)
	// GenerateReply produces a reply from the accumulated AI-context transcript
	GenerateReply(ctx context.Context, name string, history []model.HistoryEntry) (string, error)
}

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
}

type GeminiOption func(*GeminiClient)

func WithGenerativeModel(m string) GeminiOption {
	return func(g *GeminiClient) {
		g.generativeModel = m
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:          client,
		generativeModel: "gemini-2.5-flash",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func personaPrompt(name, bio string) string {
	prompt := "You are speaking as " + name + ", remembered through a digital memorial. " +
		"Reply in their voice: warm, personal, and brief (one to three sentences). " +
		"Never mention being an AI or a language model."
	if bio != "" {
		prompt += "\n\nAbout " + name + ":\n" + bio
	}
	return prompt
}

func (g *GeminiClient) GenerateWelcome(ctx context.Context, name, bio string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(personaPrompt(name, bio), ""),
	}

	contents := []*genai.Content{
		genai.NewContentFromText("A visitor has just opened the memorial page. Greet them and invite them to talk.", genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate welcome")
	}

	return responseText(resp)
}

func (g *GeminiClient) GenerateReply(ctx context.Context, name string, history []model.HistoryEntry) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(personaPrompt(name, ""), ""),
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, entry := range history {
		role := genai.Role(genai.RoleUser)
		if entry.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(entry.Text, role))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate reply")
	}

	return responseText(resp)
}

// responseText extracts the concatenated text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("empty generation response")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	if len(parts) == 0 {
		return "", goerr.New("generation response has no text parts")
	}

	return strings.Join(parts, "\n"), nil
}
