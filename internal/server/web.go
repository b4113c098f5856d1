// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const chatPage = `<html>
<head><title>Weather Chatbot</title></head>
<body>
	<h2>Weather Chatbot</h2>
	<form id="chat-form">
		<input type="text" id="query" name="query" placeholder="Ask about weather..." style="width:300px;">
		<button type="submit">Send</button>
	</form>
	<pre id="response" style="margin-top:1em;background:#f0f0f0;padding:1em;"></pre>
	<script>
	document.getElementById('chat-form').onsubmit = async function(e) {
		e.preventDefault();
		const query = document.getElementById('query').value;
		const resp = await fetch('/chat', {
			method: 'POST',
			headers: {'Content-Type': 'application/json'},
			body: JSON.stringify({query})
		});
		const data = await resp.json();
		document.getElementById('response').textContent = data.response;
	};
	</script>
</body>
</html>`

type chatRequest struct {
	Query string `json:"query"`
}

// webHandler builds the chat widget routes: an HTML page and a /chat
// endpoint that answers weather queries without going through an LLM.
func (s *MCPServer) webHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, chatPage)
	})

	router.POST("/chat", func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"response": s.answerChatQuery(c.Request.Context(), req.Query)})
	})

	return router
}

// answerChatQuery resolves a free-text weather query by direct parsing:
// "alerts in <STATE>", "forecast for <LAT> <LON> | <place>", or
// "history for <LAT> <LON>".
func (s *MCPServer) answerChatQuery(ctx context.Context, query string) string {
	lower := strings.ToLower(query)

	switch {
	case strings.HasPrefix(lower, "alerts in"):
		parts := strings.Fields(query)
		state := strings.ToUpper(parts[len(parts)-1])
		return s.weather.Alerts(ctx, state)

	case strings.HasPrefix(lower, "forecast for"):
		parts := strings.Fields(query)
		if lat, lon, ok := parseCoordinates(parts); ok {
			return s.weather.ForecastWithFallback(ctx, lat, lon)
		}
		location := strings.TrimSpace(strings.Join(parts[2:], " "))
		lat, lon, ok := s.weather.Geocode(ctx, location)
		if !ok {
			return fmt.Sprintf("Unknown location '%s'. Try: forecast for <lat> <lon> or forecast for <city/state> (e.g. NewYork)", location)
		}
		return s.weather.ForecastWithFallback(ctx, lat, lon)

	case strings.HasPrefix(lower, "history for"):
		parts := strings.Fields(query)
		lat, lon, ok := parseCoordinates(parts)
		if !ok {
			return "Invalid coordinates. Use: history for <lat> <lon>"
		}
		return s.weather.Historical(ctx, lat, lon)

	default:
		return "Try: alerts in <STATE>, forecast for <LAT> <LON>, or history for <LAT> <LON>"
	}
}

// parseCoordinates reads the trailing two fields as a lat/lon pair.
func parseCoordinates(parts []string) (lat, lon float64, ok bool) {
	if len(parts) < 4 {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(parts[len(parts)-2], 64)
	lon, err2 := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
