package openai

import (
	"context"
	"fmt"

	"document-qa-be/pkg/llm"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// Provider adapts any langchaingo model to llm.LLMProvider. New wires it
// to OpenAI.
type Provider struct {
	model llms.Model
}

var _ llm.LLMProvider = &Provider{}

func New(apiKey, modelName string) (*Provider, error) {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	opts := []lcopenai.Option{lcopenai.WithModel(modelName)}
	if apiKey != "" {
		opts = append(opts, lcopenai.WithToken(apiKey))
	}
	model, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}
	return &Provider{model: model}, nil
}

func NewFromModel(model llms.Model) *Provider {
	return &Provider{model: model}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if err := llm.ValidateConversation(history); err != nil {
		return "", err
	}
	options := llm.NewOptions(opts...)

	messages := make([]llms.MessageContent, len(history))
	for i, msg := range history {
		messages[i] = llms.TextParts(roleOf(msg.Role), msg.Content)
	}

	callOpts := []llms.CallOption{llms.WithTemperature(options.Temperature)}
	if options.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(options.MaxTokens))
	}
	if options.Model != "" {
		callOpts = append(callOpts, llms.WithModel(options.Model))
	}

	resp, err := p.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from openai")
	}
	return resp.Choices[0].Content, nil
}

func roleOf(role llm.Role) llms.ChatMessageType {
	switch role {
	case llm.RoleSystem:
		return llms.ChatMessageTypeSystem
	case llm.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
