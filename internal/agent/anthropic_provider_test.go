// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func weatherTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "get_alerts",
			Description: "Get weather alerts for a US state",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"state": map[string]interface{}{
						"type":        "string",
						"description": "Two-letter US state code (e.g. CA, NY)",
					},
				},
				"required": []interface{}{"state"},
			},
		},
		{
			Name:        "get_forecast",
			Description: "Get weather forecast for a location",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"latitude":  map[string]interface{}{"type": "number"},
					"longitude": map[string]interface{}{"type": "number"},
				},
				"required": []interface{}{"latitude", "longitude"},
			},
		},
	}
}

func TestToAnthropicTools(t *testing.T) {
	result := toAnthropicTools(weatherTools())

	if len(result) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(result))
	}
	tool := result[0].OfTool
	if tool == nil {
		t.Fatal("Expected OfTool to be set")
	}
	if tool.Name != "get_alerts" {
		t.Errorf("Expected name 'get_alerts', got '%s'", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "state" {
		t.Errorf("Expected required ['state'], got %v", tool.InputSchema.Required)
	}
	props, ok := tool.InputSchema.Properties.(map[string]interface{})
	if !ok {
		t.Fatal("Expected properties to be map[string]interface{}")
	}
	if props["state"] == nil {
		t.Error("Expected 'state' property to exist")
	}
}

func TestToAnthropicTools_EmptyProperties(t *testing.T) {
	tools := []ToolDefinition{
		{
			Name:        "noop",
			Description: "Does nothing",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}

	result := toAnthropicTools(tools)

	if len(result) != 1 {
		t.Fatalf("Expected 1 tool, got %d", len(result))
	}
	emptyProps, ok := result[0].OfTool.InputSchema.Properties.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected properties to be map[string]interface{}, got %T", result[0].OfTool.InputSchema.Properties)
	}
	if len(emptyProps) != 0 {
		t.Errorf("Expected 0 properties, got %d", len(emptyProps))
	}
}

func TestToAnthropicTools_RequiredAsStringSlice(t *testing.T) {
	tools := []ToolDefinition{
		{
			Name:        "get_historical_weather",
			Description: "Get historical weather for a location",
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
				"required":   []string{"latitude", "longitude"},
			},
		},
	}

	result := toAnthropicTools(tools)

	if len(result[0].OfTool.InputSchema.Required) != 2 {
		t.Fatalf("Expected 2 required fields, got %d", len(result[0].OfTool.InputSchema.Required))
	}
	if result[0].OfTool.InputSchema.Required[0] != "latitude" {
		t.Errorf("Expected 'latitude', got '%s'", result[0].OfTool.InputSchema.Required[0])
	}
}

func TestToAnthropicToolsRoundTrip(t *testing.T) {
	// Schema translation must not lose the name/description/parameter set.
	tools := weatherTools()
	result := toAnthropicTools(tools)

	for i, tool := range tools {
		if result[i].OfTool.Name != tool.Name {
			t.Errorf("Tool %d: expected name '%s', got '%s'", i, tool.Name, result[i].OfTool.Name)
		}
		if result[i].OfTool.Description.Value != tool.Description {
			t.Errorf("Tool %d: expected description '%s', got '%s'", i, tool.Description, result[i].OfTool.Description.Value)
		}
		wantProps := tool.Parameters["properties"].(map[string]interface{})
		gotProps := result[i].OfTool.InputSchema.Properties.(map[string]interface{})
		if len(gotProps) != len(wantProps) {
			t.Errorf("Tool %d: expected %d properties, got %d", i, len(wantProps), len(gotProps))
		}
		for name := range wantProps {
			if gotProps[name] == nil {
				t.Errorf("Tool %d: lost property '%s' in translation", i, name)
			}
		}
	}
}

func TestToAnthropicMessages_UserMessage(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "What is the weather in Sacramento?"},
	}

	result := toAnthropicMessages(msgs)

	if len(result) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(result))
	}
	if result[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("Expected role 'user', got '%s'", result[0].Role)
	}
	if len(result[0].Content) != 1 {
		t.Fatalf("Expected 1 content block, got %d", len(result[0].Content))
	}
	if result[0].Content[0].OfText == nil {
		t.Fatal("Expected text block")
	}
	if result[0].Content[0].OfText.Text != "What is the weather in Sacramento?" {
		t.Errorf("Unexpected text: '%s'", result[0].Content[0].OfText.Text)
	}
}

func TestToAnthropicMessages_ToolResult(t *testing.T) {
	msgs := []Message{
		{Role: "tool", Content: "No active alerts for this state.", ToolCallID: "toolu_123"},
	}

	result := toAnthropicMessages(msgs)

	if len(result) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(result))
	}
	// Tool results become user messages in Anthropic
	if result[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("Expected role 'user' for tool result, got '%s'", result[0].Role)
	}
	if len(result[0].Content) != 1 {
		t.Fatalf("Expected 1 content block, got %d", len(result[0].Content))
	}
	if result[0].Content[0].OfToolResult == nil {
		t.Fatal("Expected tool result block")
	}
	if result[0].Content[0].OfToolResult.ToolUseID != "toolu_123" {
		t.Errorf("Expected ToolUseID 'toolu_123', got '%s'", result[0].Content[0].OfToolResult.ToolUseID)
	}
}

func TestToAnthropicMessages_AssistantWithToolCalls(t *testing.T) {
	msgs := []Message{
		{
			Role:    "assistant",
			Content: "Let me check that",
			ToolCalls: []ToolCall{
				{ID: "toolu_1", Name: "get_alerts", Arguments: `{"state":"CA"}`},
			},
		},
	}

	result := toAnthropicMessages(msgs)

	if len(result) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(result))
	}
	if result[0].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("Expected role 'assistant', got '%s'", result[0].Role)
	}
	// Should have text block + tool_use block
	if len(result[0].Content) != 2 {
		t.Fatalf("Expected 2 content blocks (text + tool_use), got %d", len(result[0].Content))
	}
	if result[0].Content[0].OfText == nil {
		t.Fatal("Expected first block to be text")
	}
	if result[0].Content[1].OfToolUse == nil {
		t.Fatal("Expected second block to be tool_use")
	}
	if result[0].Content[1].OfToolUse.Name != "get_alerts" {
		t.Errorf("Expected tool name 'get_alerts', got '%s'", result[0].Content[1].OfToolUse.Name)
	}
}

func TestToAnthropicMessages_AssistantEmptyArguments(t *testing.T) {
	msgs := []Message{
		{
			Role: "assistant",
			ToolCalls: []ToolCall{
				{ID: "toolu_1", Name: "noop", Arguments: ""},
			},
		},
	}

	result := toAnthropicMessages(msgs)

	if len(result[0].Content) != 1 {
		t.Fatalf("Expected 1 content block, got %d", len(result[0].Content))
	}
	tu := result[0].Content[0].OfToolUse
	if tu == nil {
		t.Fatal("Expected tool_use block")
	}
	// Empty arguments should default to "{}"
	inputBytes, ok := tu.Input.(json.RawMessage)
	if !ok {
		t.Fatalf("Expected Input to be json.RawMessage, got %T", tu.Input)
	}
	if string(inputBytes) != "{}" {
		t.Errorf("Expected input '{}', got '%s'", string(inputBytes))
	}
}

func TestToAnthropicMessagesDoesNotMutateInput(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "forecast for 40.7 -74.0"},
		{
			Role: "assistant",
			ToolCalls: []ToolCall{
				{ID: "toolu_1", Name: "get_forecast", Arguments: `{"latitude":40.7,"longitude":-74.0}`},
			},
		},
		{Role: "tool", Content: "Sunny", ToolCallID: "toolu_1"},
	}

	_ = toAnthropicMessages(msgs)

	if msgs[0].Content != "forecast for 40.7 -74.0" {
		t.Error("User turn was mutated by translation")
	}
	if len(msgs[1].ToolCalls) != 1 || msgs[1].ToolCalls[0].Arguments != `{"latitude":40.7,"longitude":-74.0}` {
		t.Error("Assistant tool calls were mutated by translation")
	}
	if msgs[2].ToolCallID != "toolu_1" {
		t.Error("Tool turn was mutated by translation")
	}
}

func TestFromAnthropicMessage_TextOnly(t *testing.T) {
	resp := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			makeTextBlock("It is 72°F and sunny in New York."),
		},
	}

	result := fromAnthropicMessage(resp)

	if result.Role != "assistant" {
		t.Errorf("Expected role 'assistant', got '%s'", result.Role)
	}
	if result.Content != "It is 72°F and sunny in New York." {
		t.Errorf("Unexpected content: '%s'", result.Content)
	}
	if len(result.ToolCalls) != 0 {
		t.Errorf("Expected 0 tool calls, got %d", len(result.ToolCalls))
	}
}

func TestFromAnthropicMessage_ToolUseOnly(t *testing.T) {
	resp := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			makeToolUseBlock("toolu_abc", "get_forecast", `{"latitude":40.7,"longitude":-74.0}`),
		},
	}

	result := fromAnthropicMessage(resp)

	if result.Content != "" {
		t.Errorf("Expected empty content, got '%s'", result.Content)
	}
	if len(result.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(result.ToolCalls))
	}
	tc := result.ToolCalls[0]
	if tc.ID != "toolu_abc" {
		t.Errorf("Expected ID 'toolu_abc', got '%s'", tc.ID)
	}
	if tc.Name != "get_forecast" {
		t.Errorf("Expected name 'get_forecast', got '%s'", tc.Name)
	}
	if tc.Arguments != `{"latitude":40.7,"longitude":-74.0}` {
		t.Errorf("Expected arguments, got '%s'", tc.Arguments)
	}
}

func TestFromAnthropicMessage_MixedTextAndToolUse(t *testing.T) {
	resp := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			makeTextBlock("Checking conditions"),
			makeToolUseBlock("toolu_1", "get_alerts", `{"state":"TX"}`),
			makeToolUseBlock("toolu_2", "get_forecast", `{"latitude":31.05,"longitude":-97.56}`),
		},
	}

	result := fromAnthropicMessage(resp)

	if result.Content != "Checking conditions" {
		t.Errorf("Expected 'Checking conditions', got '%s'", result.Content)
	}
	if len(result.ToolCalls) != 2 {
		t.Fatalf("Expected 2 tool calls, got %d", len(result.ToolCalls))
	}
	if result.ToolCalls[0].Name != "get_alerts" {
		t.Errorf("Expected first tool 'get_alerts', got '%s'", result.ToolCalls[0].Name)
	}
	if result.ToolCalls[1].Name != "get_forecast" {
		t.Errorf("Expected second tool 'get_forecast', got '%s'", result.ToolCalls[1].Name)
	}
}

func TestFromAnthropicMessage_MultipleTextBlocks(t *testing.T) {
	resp := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			makeTextBlock("First part"),
			makeTextBlock("Second part"),
		},
	}

	result := fromAnthropicMessage(resp)

	if result.Content != "First part\nSecond part" {
		t.Errorf("Expected 'First part\\nSecond part', got '%s'", result.Content)
	}
}

// makeTextBlock creates a ContentBlockUnion with type "text" for testing.
func makeTextBlock(text string) anthropic.ContentBlockUnion {
	raw := `{"type":"text","text":` + mustJSON(text) + `}`
	var block anthropic.ContentBlockUnion
	if err := json.Unmarshal([]byte(raw), &block); err != nil {
		panic("makeTextBlock: " + err.Error())
	}
	return block
}

// makeToolUseBlock creates a ContentBlockUnion with type "tool_use" for testing.
func makeToolUseBlock(id, name, inputJSON string) anthropic.ContentBlockUnion {
	raw := `{"type":"tool_use","id":` + mustJSON(id) + `,"name":` + mustJSON(name) + `,"input":` + inputJSON + `}`
	var block anthropic.ContentBlockUnion
	if err := json.Unmarshal([]byte(raw), &block); err != nil {
		panic("makeToolUseBlock: " + err.Error())
	}
	return block
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
