package llm

import (
	"context"
	"errors"
)

// DefaultTemperature keeps answers close to the supplied reference material.
const DefaultTemperature = 0.2

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a provider-agnostic conversation.
type Message struct {
	Role    Role
	Content string
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

var ErrEmptyConversation = errors.New("llm: conversation has no user message")

// ValidateConversation requires at least one user turn; system turns alone
// give the model nothing to answer.
func ValidateConversation(messages []Message) error {
	for _, m := range messages {
		if m.Role == RoleUser && m.Content != "" {
			return nil
		}
	}
	return ErrEmptyConversation
}

type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	// Model overrides the provider's configured model for one call.
	Model       string
}

// NewOptions applies opts on top of the defaults shared by all providers.
func NewOptions(opts ...Option) Options {
	options := Options{Temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider turns a conversation into the model's next assistant turn.
type LLMProvider interface {
	Chat(ctx context.Context, messages []Message, options ...Option) (string, error)
}
