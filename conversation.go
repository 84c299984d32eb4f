package ytagent

import (
	"fmt"
	"strings"
)

// Conversation holds one run's ordered, append-only message history. It is
// created per run and discarded when the run ends; there is no cross-run
// state.
type Conversation struct {
	systemPrompt string
	messages     []Message
}

// NewConversation creates an empty conversation with a system prompt.
func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{
		systemPrompt: systemPrompt,
		messages:     make([]Message, 0),
	}
}

// Seed appends the initial user query.
func (c *Conversation) Seed(query string) {
	c.Append(Message{Role: RoleUser, Content: query})
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// AppendToolResult adds a tool result as a tool message.
func (c *Conversation) AppendToolResult(res ToolResult) {
	c.Append(res.Message())
}

// Last returns the most recent message, or nil when empty.
func (c *Conversation) Last() *Message {
	if len(c.messages) == 0 {
		return nil
	}
	return &c.messages[len(c.messages)-1]
}

// Len returns the number of appended messages, excluding the system prompt.
func (c *Conversation) Len() int { return len(c.messages) }

// Messages returns the full message list for the LLM, system prompt first.
// The returned slice is a copy; the conversation itself only ever grows.
func (c *Conversation) Messages() []Message {
	msgs := make([]Message, 0, len(c.messages)+1)
	if c.systemPrompt != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: c.systemPrompt})
	}
	return append(msgs, c.messages...)
}

// TotalTokens returns cumulative token usage across assistant messages.
func (c *Conversation) TotalTokens() TokenUsage {
	var total TokenUsage
	for _, msg := range c.messages {
		if msg.TokenUsage != nil {
			total.Add(*msg.TokenUsage)
		}
	}
	return total
}

// Summary returns a brief summary of the conversation state.
func (c *Conversation) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Conversation: %d messages\n", len(c.messages)))

	for i, msg := range c.messages {
		switch msg.Role {
		case RoleUser:
			sb.WriteString(fmt.Sprintf("  [%d] user: %s\n", i, truncate(msg.Content, 50)))
		case RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				names := make([]string, len(msg.ToolCalls))
				for j, tc := range msg.ToolCalls {
					names[j] = tc.Name
				}
				sb.WriteString(fmt.Sprintf("  [%d] assistant: calls %s\n", i, strings.Join(names, ", ")))
			} else {
				sb.WriteString(fmt.Sprintf("  [%d] assistant: %s\n", i, truncate(msg.Content, 50)))
			}
		case RoleTool:
			sb.WriteString(fmt.Sprintf("  [%d] tool %s: %s\n", i, msg.ToolCallID, truncate(msg.Content, 50)))
		}
	}

	tokens := c.TotalTokens()
	sb.WriteString(fmt.Sprintf("Total tokens: %d (in: %d, out: %d)\n",
		tokens.Total(), tokens.InputTokens, tokens.OutputTokens))

	return sb.String()
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
