// SPDX-License-Identifier: AGPL-3.0-only
package agent

import (
	"regexp"
	"strings"
)

// toolUsePattern recognizes the placeholder tag some models emit instead of
// prose when their whole turn was a tool invocation.
var toolUsePattern = regexp.MustCompile(`(?is)^(<tool-use.*?>.*?</tool-use>|<tool-use\s*/?>)$`)

// CleanAnswer prepares a completed query's raw answer for display: tool-call
// marker lines are removed, and if nothing meaningful remains the most recent
// tool result stands in for the answer.
func CleanAnswer(answer, lastToolResult string) string {
	var kept []string
	for _, line := range strings.Split(answer, "\n") {
		if strings.HasPrefix(line, "[Calling tool ") {
			continue
		}
		kept = append(kept, line)
	}

	cleaned := strings.TrimSpace(strings.Join(kept, "\n"))
	if (cleaned == "" || toolUsePattern.MatchString(cleaned)) && lastToolResult != "" {
		return "[Tool Result] " + lastToolResult
	}
	return cleaned
}
