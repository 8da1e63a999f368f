package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/xcorat/araliya-bot/server/profile"
	"github.com/xcorat/araliya-bot/store"
)

const systemPrompt = "You are Araliya, a helpful AI assistant. Provide clear, concise, and helpful responses to user questions."

const contextPreamble = "\n\nYou have access to the following relevant information to help answer questions:\n\n" +
	"%s\n\n" +
	"Use this information to provide accurate and helpful responses. If the context doesn't contain relevant information " +
	"for the user's question, you can still provide general assistance based on your knowledge."

// OpenAIChatter talks to an OpenAI-compatible chat-completion endpoint
// through langchaingo.
type OpenAIChatter struct {
	model          *openai.LLM
	modelName      string
	maxTokens      int
	temperature    float64
	requestTimeout time.Duration
}

// NewOpenAIChatter builds a chatter from the profile. The base URL may
// point at any OpenAI-compatible provider.
func NewOpenAIChatter(p *profile.Profile) (*OpenAIChatter, error) {
	opts := []openai.Option{
		openai.WithToken(p.OpenAIAPIKey),
		openai.WithModel(p.OpenAIModel),
	}
	if p.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(p.OpenAIBaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "init openai client")
	}
	return &OpenAIChatter{
		model:          model,
		modelName:      p.OpenAIModel,
		maxTokens:      p.OpenAIMaxTokens,
		temperature:    p.OpenAITemperature,
		requestTimeout: p.RequestTimeout,
	}, nil
}

// GenerateReply implements Chatter.
func (c *OpenAIChatter) GenerateReply(ctx context.Context, history []store.Message, userMessage, ragContext string) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	messages := BuildMessages(history, userMessage, ragContext)
	started := time.Now()

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(c.maxTokens),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from LLM")
	}

	choice := resp.Choices[0]
	elapsed := time.Since(started)

	metadata := map[string]any{
		"model":            c.modelName,
		"response_time_ms": float64(elapsed.Microseconds()) / 1000,
		"finish_reason":    choice.StopReason,
	}
	if tokens, ok := choice.GenerationInfo["TotalTokens"]; ok {
		metadata["tokens_used"] = tokens
	}

	slog.Info("generated response", "model", c.modelName, "elapsed", elapsed)
	return &Reply{Message: choice.Content, Metadata: metadata}, nil
}

// CheckConnectivity implements Chatter with a minimal one-token probe.
func (c *OpenAIChatter) CheckConnectivity(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := c.model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, "ping")},
		llms.WithMaxTokens(1),
	)
	if err != nil {
		slog.Error("connectivity check failed", "err", err)
		return false
	}
	return true
}

// BuildMessages assembles the prompt: system persona (with the
// retrieved-context block when present), then the conversation history,
// then the current user message.
func BuildMessages(history []store.Message, userMessage, ragContext string) []llms.MessageContent {
	system := systemPrompt
	if ragContext != "" {
		system += fmt.Sprintf(contextPreamble, ragContext)
	}

	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		if m.Role == store.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, m.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))
	return messages
}
