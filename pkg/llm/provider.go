package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that request a tool
	ToolCallID string     // set on tool messages answering a specific call
}

// ToolCall is a model request to invoke a bound tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON arguments as emitted by the model
}

// Tool describes a callable capability the model may request.
// Parameters is a JSON-Schema object in the shape both Ollama and
// OpenAI-compatible APIs accept.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Reply is the provider-agnostic result of a chat turn.
type Reply struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	JSONFormat  bool   // Ask the backend to enforce JSON output
	Tools       []Tool
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithJSONFormat forces the backend into JSON mode where supported. Local
// models often need the explicit hint; cloud backends map it to a native
// response_format. Callers must still expect non-JSON output.
func WithJSONFormat() Option {
	return func(o *Options) {
		o.JSONFormat = true
	}
}

// WithTools binds tools the model may request during this turn.
func WithTools(tools ...Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response,
	// including any tool calls the model requested.
	Chat(ctx context.Context, history []Message, options ...Option) (*Reply, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Standard role names shared by both backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)
