// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Sumanth-CBRE/Weatherbot/internal/errors"
)

// RestProvider implements ChatProvider against an OpenAI-wire chat-completion
// endpoint over raw HTTP with bearer-token auth. It backs both the Groq and
// the Llama (Together) providers, which differ only in endpoint, default
// sampling and message sanitization strictness.
type RestProvider struct {
	name        string
	endpoint    string
	apiKey      string
	maxTokens   int
	temperature float64

	// dropEmptyTurns prunes turns whose content is empty after role-specific
	// filtering. The Groq endpoint rejects such turns; the Together endpoint
	// tolerates them, so only the Groq variant enables this.
	dropEmptyTurns bool

	http *resty.Client
}

// NewGroqProvider creates a ChatProvider for the Groq OpenAI-compatible API.
func NewGroqProvider(apiKey, endpoint string, maxTokens int, timeout time.Duration) *RestProvider {
	return &RestProvider{
		name:           "Groq API",
		endpoint:       endpoint,
		apiKey:         apiKey,
		maxTokens:      maxTokens,
		dropEmptyTurns: true,
		http:           resty.New().SetTimeout(timeout),
	}
}

// NewLlamaProvider creates a ChatProvider for a Llama model served over the
// Together AI REST API.
func NewLlamaProvider(apiKey, endpoint string, maxTokens int, timeout time.Duration) *RestProvider {
	return &RestProvider{
		name:        "Llama API",
		endpoint:    endpoint,
		apiKey:      apiKey,
		maxTokens:   maxTokens,
		temperature: 0.7,
		http:        resty.New().SetTimeout(timeout),
	}
}

type wireFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Arguments   string                 `json:"arguments,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    *string        `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type completionResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string          `json:"name"`
					Arguments json.RawMessage `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *RestProvider) CreateCompletion(ctx context.Context, model string, messages []Message, tools []ToolDefinition) (*Message, error) {
	payload := completionRequest{
		Model:       model,
		Messages:    p.toWireMessages(messages),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}
	if len(tools) > 0 {
		payload.Tools = toWireTools(tools)
		payload.ToolChoice = "auto"
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetBody(payload).
		Post(p.endpoint)
	if err != nil {
		return connectErrorReply(p.name, errors.Transport(err)), nil
	}
	if resp.IsError() {
		return connectErrorReply(p.name, errors.UpstreamStatus(p.name, resp.StatusCode())), nil
	}

	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return parseErrorReply(p.name, errors.MalformedResponse(p.name, "empty response body")), nil
	}

	var data completionResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return parseErrorReply(p.name, errors.MalformedResponse(p.name, err.Error())), nil
	}
	if data.Error != nil {
		return connectErrorReply(p.name, fmt.Errorf("%s", data.Error.Message)), nil
	}
	if len(data.Choices) == 0 {
		return parseErrorReply(p.name, errors.MalformedResponse(p.name, "response has no choices")), nil
	}

	choice := data.Choices[0].Message
	msg := &Message{
		Role:    "assistant",
		Content: choice.Content,
	}
	for _, tc := range choice.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: normalizeArguments(tc.Function.Arguments),
		})
	}
	return msg, nil
}

// toWireTools serializes tool definitions into the OpenAI function-calling
// declaration format.
func toWireTools(tools []ToolDefinition) []wireTool {
	out := make([]wireTool, len(tools))
	for i, t := range tools {
		out[i] = wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return out
}

// toWireMessages reshapes the conversation for the wire:
//   - assistant turns carrying tool calls are sent with null content, and
//     every tool-call arguments field is a JSON-encoded string (defaulting to
//     "{}" when absent)
//   - tool turns carry only role, content and the originating call id
//   - when dropEmptyTurns is set, turns whose content is empty or whitespace
//     after filtering are removed entirely
func (p *RestProvider) toWireMessages(messages []Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "user":
			content := m.Content
			out = append(out, wireMessage{Role: "user", Content: &content})
		case "assistant":
			if len(m.ToolCalls) > 0 {
				calls := make([]wireToolCall, len(m.ToolCalls))
				for i, tc := range m.ToolCalls {
					args := tc.Arguments
					if !json.Valid([]byte(args)) {
						args = "{}"
					}
					calls[i] = wireToolCall{
						ID:   tc.ID,
						Type: "function",
						Function: wireFunction{
							Name:      tc.Name,
							Arguments: args,
						},
					}
				}
				out = append(out, wireMessage{Role: "assistant", Content: nil, ToolCalls: calls})
			} else if !p.dropEmptyTurns || strings.TrimSpace(m.Content) != "" {
				content := m.Content
				out = append(out, wireMessage{Role: "assistant", Content: &content})
			}
		case "tool":
			content := m.Content
			out = append(out, wireMessage{Role: "tool", Content: &content, ToolCallID: m.ToolCallID})
		}
	}
	return out
}

// normalizeArguments flattens tool-call arguments into a JSON-encoded string.
// Providers deliver them either as a JSON string ("{\"a\":1}") or as a native
// object ({"a":1}); both are accepted.
func normalizeArguments(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if strings.TrimSpace(asString) == "" {
			return "{}"
		}
		return asString
	}
	return string(raw)
}
