package ytagent

import (
	"strings"
	"testing"
)

func TestConversationMessages(t *testing.T) {
	c := NewConversation("be helpful")
	c.Seed("what time is it")
	c.Append(Message{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c1", Name: "clock"}}})
	c.AppendToolResult(ToolResult{ToolCallID: "c1", Content: "noon", OK: true})

	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}

	msgs := c.Messages()
	if len(msgs) != 4 {
		t.Fatalf("Messages returned %d, want 4 (system + 3)", len(msgs))
	}
	if msgs[0].Role != RoleSystem || msgs[0].Content != "be helpful" {
		t.Errorf("msgs[0] = %+v", msgs[0])
	}
	if msgs[1].Role != RoleUser {
		t.Errorf("msgs[1].Role = %q", msgs[1].Role)
	}
	if msgs[3].Role != RoleTool || msgs[3].ToolCallID != "c1" || msgs[3].Content != "noon" {
		t.Errorf("msgs[3] = %+v", msgs[3])
	}

	last := c.Last()
	if last == nil || last.Role != RoleTool {
		t.Errorf("Last = %+v", last)
	}
}

func TestConversationNoSystemPrompt(t *testing.T) {
	c := NewConversation("")
	c.Seed("hi")
	msgs := c.Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleUser {
		t.Errorf("Messages = %+v", msgs)
	}
}

func TestConversationMessagesIsACopy(t *testing.T) {
	c := NewConversation("sys")
	c.Seed("hi")

	msgs := c.Messages()
	msgs[1].Content = "mutated"
	msgs = append(msgs, Message{Role: RoleUser, Content: "extra"})
	_ = msgs

	fresh := c.Messages()
	if len(fresh) != 2 {
		t.Fatalf("conversation grew through returned slice: %d messages", len(fresh))
	}
	if fresh[1].Content != "hi" {
		t.Errorf("conversation mutated through returned slice: %q", fresh[1].Content)
	}
}

func TestConversationTotalTokens(t *testing.T) {
	c := NewConversation("")
	c.Seed("q")
	c.Append(Message{Role: RoleAssistant, Content: "a",
		TokenUsage: &TokenUsage{InputTokens: 10, OutputTokens: 5}})
	c.Append(Message{Role: RoleAssistant, Content: "b",
		TokenUsage: &TokenUsage{InputTokens: 20, OutputTokens: 15}})

	total := c.TotalTokens()
	if total.InputTokens != 30 || total.OutputTokens != 20 {
		t.Errorf("TotalTokens = %+v", total)
	}
	if total.Total() != 50 {
		t.Errorf("Total = %d, want 50", total.Total())
	}
}

func TestConversationSummary(t *testing.T) {
	c := NewConversation("")
	c.Seed("summarize the video")
	c.Append(Message{Role: RoleAssistant, ToolCalls: []ToolCall{
		{ID: "c1", Name: "fetch_transcript"},
	}})
	c.AppendToolResult(ToolResult{ToolCallID: "c1", Content: "a transcript", OK: true})

	s := c.Summary()
	for _, want := range []string{"3 messages", "summarize the video", "fetch_transcript", "a transcript"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary missing %q:\n%s", want, s)
		}
	}
}
