// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumanth-CBRE/Weatherbot/internal/errors"
)

// extractParams extracts parameters from a tool request
func extractParams(request *mcp.CallToolRequest, params interface{}) error {
	// Arguments arrive as untyped JSON; round-trip through encoding/json to
	// land in the typed params struct.
	raw, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return errors.InvalidInput(fmt.Sprintf("invalid parameters: %v", err))
	}
	if err := json.Unmarshal(raw, params); err != nil {
		return errors.InvalidInput(fmt.Sprintf("invalid parameters: %v", err))
	}
	return nil
}

// createTextResponse wraps plain text in a tool result
func createTextResponse(text string) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: text,
			},
		},
	}, nil
}

// handleGetAlerts returns active weather alerts for a US state
func (s *MCPServer) handleGetAlerts(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AlertsParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}

	state := strings.ToUpper(strings.TrimSpace(params.State))
	if state == "" {
		return nil, errors.InvalidInput("state code is required")
	}

	s.logger.Debugf("Handling get_alerts request for state %s", state)

	return createTextResponse(s.weather.Alerts(ctx, state))
}

// handleGetForecast returns the forecast for a coordinate pair
func (s *MCPServer) handleGetForecast(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params CoordinateParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}

	s.logger.Debugf("Handling get_forecast request for (%f, %f)", params.Latitude, params.Longitude)

	return createTextResponse(s.weather.Forecast(ctx, params.Latitude, params.Longitude))
}

// handleGetHistoricalWeather returns historical weather for a coordinate pair
func (s *MCPServer) handleGetHistoricalWeather(ctx context.Context, request *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params CoordinateParams
	if err := extractParams(request, &params); err != nil {
		return nil, err
	}

	s.logger.Debugf("Handling get_historical_weather request for (%f, %f)", params.Latitude, params.Longitude)

	return createTextResponse(s.weather.Historical(ctx, params.Latitude, params.Longitude))
}
