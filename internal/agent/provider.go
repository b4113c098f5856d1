// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"fmt"
)

// ToolDefinition is a provider-agnostic representation of a tool that can be
// offered to an LLM during a chat completion.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall represents a single tool invocation requested by the model.
// Arguments is always a JSON-encoded string, regardless of whether the
// provider delivered it as a string or as a native structure.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Message is a provider-agnostic chat message.
type Message struct {
	Role       string     // "user", "assistant", "tool"
	Content    string     // text content
	ToolCalls  []ToolCall // tool calls requested by the assistant
	ToolCallID string     // set when Role == "tool" to correlate with a ToolCall
}

// ChatProvider abstracts a chat-completion backend so the query loop can work
// with any LLM provider.
//
// Implementations must not mutate the messages slice, and must convert
// recoverable request failures (transport errors, non-2xx statuses, empty or
// malformed bodies) into an assistant reply describing the failure rather
// than returning an error. A returned error is reserved for conditions the
// loop cannot continue from.
type ChatProvider interface {
	// CreateCompletion sends a chat completion request and returns the
	// assistant's response message.
	CreateCompletion(ctx context.Context, model string, messages []Message, tools []ToolDefinition) (*Message, error)
}

// connectErrorReply builds the synthetic assistant reply used when a request
// to a provider fails before a usable response arrives.
func connectErrorReply(providerName string, err error) *Message {
	return &Message{
		Role:    "assistant",
		Content: fmt.Sprintf("Sorry, I encountered an error when connecting to %s: %v", providerName, err),
	}
}

// parseErrorReply builds the synthetic assistant reply used when a provider
// response cannot be parsed.
func parseErrorReply(providerName string, err error) *Message {
	return &Message{
		Role:    "assistant",
		Content: fmt.Sprintf("Sorry, I encountered an error parsing the response from %s: %v", providerName, err),
	}
}
