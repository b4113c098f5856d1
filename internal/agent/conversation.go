// SPDX-License-Identifier: AGPL-3.0-only
package agent

// Conversation is the ordered message log for one query-processing cycle.
// It is append-only: turns are never rewritten or reordered, and it is owned
// by a single query loop for its lifetime.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation seeded with one user turn.
func NewConversation(query string) *Conversation {
	return &Conversation{
		messages: []Message{
			{Role: "user", Content: query},
		},
	}
}

// Append adds a turn to the end of the log.
func (c *Conversation) Append(m Message) {
	c.messages = append(c.messages, m)
}

// Messages returns the current log. Callers must treat it as read-only.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len returns the number of turns in the log.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// LastToolResult returns the content of the most recent tool turn, if any.
func (c *Conversation) LastToolResult() (string, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == "tool" {
			return c.messages[i].Content, true
		}
	}
	return "", false
}
