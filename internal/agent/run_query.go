// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Sumanth-CBRE/Weatherbot/internal/config"
	"github.com/Sumanth-CBRE/Weatherbot/internal/logging"
)

// QueryOutcome is the result of one completed query loop.
type QueryOutcome struct {
	// Answer is the accumulated model text across all rounds, including
	// tool-call markers. Run it through CleanAnswer before display.
	Answer string

	// LastToolResult is the content of the final tool turn, used as a
	// substitute answer when the model output collapses to nothing.
	LastToolResult string

	// Rounds is the number of model calls made.
	Rounds int
}

// newChatProvider builds the appropriate ChatProvider based on cfg.AI.Provider.
func newChatProvider(cfg *config.Config) (ChatProvider, error) {
	switch strings.ToLower(cfg.AI.Provider) {
	case "anthropic":
		return NewAnthropicProvider(cfg.AI.AnthropicAPIKey, cfg.AI.MaxTokens), nil
	case "openai":
		return NewOpenAIProvider(cfg.AI.OpenAIAPIKey, cfg.AI.BaseURL, cfg.AI.MaxTokens), nil
	case "llama":
		return NewLlamaProvider(cfg.AI.LlamaAPIKey, cfg.AI.LlamaEndpoint, cfg.AI.MaxTokens, cfg.AI.RequestTimeout), nil
	case "groq", "":
		return NewGroqProvider(cfg.AI.GroqAPIKey, cfg.AI.GroqEndpoint, cfg.AI.MaxTokens, cfg.AI.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AI.Provider)
	}
}

// defaultModel returns the model used when none is configured.
func defaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return "claude-3-haiku-20240307"
	case "openai":
		return "gpt-3.5-turbo"
	case "llama":
		return "Meta-Llama-3-8B-Instruct"
	default: // groq
		return "llama3-8b-8192"
	}
}

// RunQuery processes a user query with the configured LLM provider and the
// tools exposed by the session.
func RunQuery(ctx context.Context, query string, cfg *config.Config, session ToolDispatcher) (*QueryOutcome, error) {
	provider, err := newChatProvider(cfg)
	if err != nil {
		return nil, err
	}

	model := cfg.AI.Model
	if model == "" {
		model = defaultModel(cfg.AI.Provider)
	}

	logger := logging.GetDefaultLogger().WithField("query_id", uuid.NewString())
	return runToolLoop(ctx, provider, model, cfg.AI.MaxToolIterations, query, session, logger)
}

// runToolLoop drives the query through alternating model calls and tool
// executions until the model stops requesting tools or the iteration ceiling
// is hit.
func runToolLoop(
	ctx context.Context,
	provider ChatProvider,
	model string,
	maxIterations int,
	query string,
	session ToolDispatcher,
	logger *logging.Logger,
) (*QueryOutcome, error) {
	conv := NewConversation(query)
	tools := session.Tools()
	logger.Infof("Processing query with %d tools available", len(tools))

	var finalText []string

	for i := 0; i < maxIterations; i++ {
		logger.Debugf("Query round %d", i+1)
		resp, err := provider.CreateCompletion(ctx, model, conv.Messages(), tools)
		if err != nil {
			logger.Errorf("Chat completion failed on round %d: %v", i+1, err)
			return nil, err
		}

		if resp.Content != "" {
			finalText = append(finalText, resp.Content)
		}

		// If no tool calls, the accumulated text is the final answer
		if len(resp.ToolCalls) == 0 {
			logger.Infof("Query completed after %d rounds", i+1)
			lastResult, _ := conv.LastToolResult()
			return &QueryOutcome{
				Answer:         strings.Join(finalText, "\n"),
				LastToolResult: lastResult,
				Rounds:         i + 1,
			}, nil
		}

		// Add the assistant message with tool calls to the conversation
		conv.Append(*resp)

		// Process tool calls in the order the model requested them
		logger.Debugf("Processing %d tool calls in round %d", len(resp.ToolCalls), i+1)
		for _, call := range resp.ToolCalls {
			finalText = append(finalText, fmt.Sprintf("[Calling tool %s with args %s]", call.Name, call.Arguments))
			out, err := session.Dispatch(ctx, call)
			if err != nil {
				logger.Warnf("Tool call error: %v", err)
				out = "ERROR: " + err.Error()
			}
			conv.Append(Message{
				Role:       "tool",
				Content:    out,
				ToolCallID: call.ID,
			})
		}
	}

	logger.Errorf("Query exceeded maximum rounds (%d)", maxIterations)
	return nil, fmt.Errorf("tool loop exceeded maximum iterations (%d)", maxIterations)
}
