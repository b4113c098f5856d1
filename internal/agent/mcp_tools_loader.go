// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumanth-CBRE/Weatherbot/internal/errors"
	"github.com/Sumanth-CBRE/Weatherbot/internal/logging"
)

// ToolDispatcher exposes the available tool operations and routes the model's
// tool calls to them. Implemented by ToolSession; the query loop depends only
// on this interface.
type ToolDispatcher interface {
	Tools() []ToolDefinition
	Dispatch(ctx context.Context, call ToolCall) (string, error)
}

// ToolSession is a live connection to an MCP tool server.
type ToolSession struct {
	session *mcp.ClientSession
	tools   []ToolDefinition
	known   map[string]bool
	logger  *logging.Logger
}

// ServerCommand derives the launch command for a server script path: .py
// scripts run under python, .js under node. Anything else is an error.
func ServerCommand(scriptPath string) (string, []string, error) {
	switch {
	case strings.HasSuffix(scriptPath, ".py"):
		return "python", []string{scriptPath}, nil
	case strings.HasSuffix(scriptPath, ".js"):
		return "node", []string{scriptPath}, nil
	default:
		return "", nil, errors.InvalidInput("server script must be a .py or .js file")
	}
}

// ConnectServer launches the tool server command, connects over stdio and
// lists its tools. Connection failure here is the one fatal error in the
// system; everything after startup degrades to descriptive text.
func ConnectServer(ctx context.Context, name string, args []string, logger *logging.Logger) (*ToolSession, error) {
	tp := &mcp.CommandTransport{Command: exec.Command(name, args...)}

	cli := mcp.NewClient(&mcp.Implementation{Name: "weatherbot", Version: "1.0.0"}, nil)
	session, err := cli.Connect(ctx, tp, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to tool server: %w", err)
	}

	ts := &ToolSession{
		session: session,
		known:   map[string]bool{},
		logger:  logger,
	}
	if err := ts.loadTools(ctx); err != nil {
		_ = session.Close()
		return nil, err
	}

	names := make([]string, len(ts.tools))
	for i, t := range ts.tools {
		names[i] = t.Name
	}
	logger.Infof("Connected to server with tools: %v", names)

	return ts, nil
}

// loadTools lists the server's tools and converts their schemas into the
// provider-agnostic representation.
func (ts *ToolSession) loadTools(ctx context.Context) error {
	resp, err := ts.session.ListTools(ctx, nil)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	for _, tl := range resp.Tools {
		params, err := toolParameters(tl.InputSchema)
		if err != nil {
			ts.logger.Warnf("Failed to convert input schema for tool %s: %v", tl.Name, err)
			continue
		}

		ts.tools = append(ts.tools, ToolDefinition{
			Name:        tl.Name,
			Description: tl.Description,
			Parameters:  params,
		})
		ts.known[tl.Name] = true
	}
	return nil
}

// toolParameters converts a listed tool's input schema into the
// map[string]interface{} form the providers expect. A nil schema means the
// tool takes no input and is treated as the empty object schema.
func toolParameters(schema any) (map[string]interface{}, error) {
	if schema == nil {
		schema = map[string]interface{}{"type": "object"}
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}
	var params map[string]interface{}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("unmarshal input schema: %w", err)
	}
	if params == nil {
		params = map[string]interface{}{"type": "object"}
	}

	// WORKAROUND: the OpenAI API rejects object schemas with no properties,
	// so give no-parameter tools a dummy property.
	if props, _ := params["properties"].(map[string]interface{}); params["type"] == "object" && len(props) == 0 {
		params["properties"] = map[string]interface{}{
			"random_string": map[string]interface{}{
				"type":        "string",
				"description": "Dummy parameter for no-parameter tools",
			},
		}
		params["required"] = []string{"random_string"}
	}

	return params, nil
}

// Tools returns the tool definitions discovered on the server.
func (ts *ToolSession) Tools() []ToolDefinition {
	return ts.tools
}

// Dispatch routes a model tool call to the server and flattens the result
// into a single string.
func (ts *ToolSession) Dispatch(ctx context.Context, call ToolCall) (string, error) {
	if !ts.known[call.Name] {
		return "", errors.UnknownTool(call.Name)
	}

	args, err := decodeArguments(call)
	if err != nil {
		return "", err
	}

	res, err := ts.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      call.Name,
		Arguments: args,
	})
	if err != nil {
		return "", err
	}
	return flattenContent(res.Content), nil
}

// Close releases the server connection.
func (ts *ToolSession) Close() error {
	return ts.session.Close()
}

// decodeArguments parses a tool call's JSON-string arguments into a map.
// Empty arguments decode to an empty map.
func decodeArguments(call ToolCall) (map[string]interface{}, error) {
	if strings.TrimSpace(call.Arguments) == "" {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return nil, errors.ArgumentDecode(call.Name, err)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return args, nil
}

// flattenContent joins multi-part tool results into one string, text parts
// in order.
func flattenContent(content []mcp.Content) string {
	var sb strings.Builder
	for _, part := range content {
		if text, ok := part.(*mcp.TextContent); ok {
			sb.WriteString(text.Text)
			continue
		}
		if b, err := json.Marshal(part); err == nil {
			sb.Write(b)
		}
	}
	return sb.String()
}
