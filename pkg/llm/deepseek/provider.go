package deepseek

import (
	"ai-legalcouncil-be/pkg/llm"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DeepSeekProvider talks to the DeepSeek cloud API, which is
// OpenAI-compatible (/chat/completions with tools and response_format).
type DeepSeekProvider struct {
	BaseURL   string
	APIKey    string
	ModelName string
	Client    *http.Client
}

var _ llm.LLMProvider = &DeepSeekProvider{}

func NewDeepSeekProvider(baseURL, apiKey, modelName string) *DeepSeekProvider {
	if baseURL == "" {
		baseURL = "https://api.deepseek.com"
	}
	if modelName == "" {
		modelName = "deepseek-chat"
	}
	return &DeepSeekProvider{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (OpenAI-compatible wire shapes) ---

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Tools          []chatTool      `json:"tools,omitempty"`
}

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type chatToolCall struct {
	ID       string               `json:"id"`
	Type     string               `json:"type"`
	Function chatToolCallFunction `json:"function"`
}

type chatToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// --- Interface Implementation ---

func (d *DeepSeekProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Reply, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = llm.RoleAssistant
		}
		messages[i] = chatMessage{
			Role:       role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, tc := range msg.ToolCalls {
			messages[i].ToolCalls = append(messages[i].ToolCalls, chatToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: chatToolCallFunction{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
	}

	model := d.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
		Stream:      false,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}
	if options.JSONFormat {
		reqPayload.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	for _, tool := range options.Tools {
		reqPayload.Tools = append(reqPayload.Tools, chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := d.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.APIKey)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepseek request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deepseek error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("deepseek returned no choices")
	}

	msg := apiResp.Choices[0].Message
	reply := &llm.Reply{
		Content: msg.Content,
	}
	for _, tc := range msg.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return reply, nil
}

func (d *DeepSeekProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	reply, err := d.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}
