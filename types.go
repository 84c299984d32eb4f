package ytagent

import "time"

// MessageRole represents the role of a message in conversation.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

// Message represents a chat message. Assistant messages may carry tool
// calls; tool messages echo the correlation ID of the call they answer.
type Message struct {
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	TokenUsage *TokenUsage `json:"token_usage,omitempty"`
}

// ToolCall represents a model-issued tool invocation request.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the outcome of executing one ToolCall. ToolCallID echoes
// the request's correlation ID; OK is false when the tool failed, in which
// case Content carries the error text instead of the tool's output.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	OK         bool   `json:"ok"`
}

// Message converts the result into a tool message for the conversation.
func (r ToolResult) Message() Message {
	return Message{Role: RoleTool, Content: r.Content, ToolCallID: r.ToolCallID}
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Total returns total tokens used.
func (t TokenUsage) Total() int {
	return t.InputTokens + t.OutputTokens
}

// Add accumulates another usage sample.
func (t *TokenUsage) Add(u TokenUsage) {
	t.InputTokens += u.InputTokens
	t.OutputTokens += u.OutputTokens
}

// Timing captures execution timing.
type Timing struct {
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// NewTiming creates timing from start time.
func NewTiming(start time.Time) Timing {
	end := time.Now()
	return Timing{
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}
}

// RunState is the loop controller's state.
type RunState string

const (
	StateAwaitingModel  RunState = "awaiting_model"
	StateExecutingTools RunState = "executing_tools"
	StateDone           RunState = "done"
	StateAborted        RunState = "aborted"
)

// RunResult holds the result of one agent run.
type RunResult struct {
	RunID      string      `json:"run_id"`
	Answer     string      `json:"answer"`
	State      RunState    `json:"state"`
	Messages   []Message   `json:"messages"`
	TokenUsage *TokenUsage `json:"token_usage,omitempty"`
	Timing     Timing      `json:"timing"`
}

// ToolInput describes a tool parameter.
type ToolInput struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
}

// ToolSchema describes a tool's interface.
type ToolSchema struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Inputs      map[string]ToolInput `json:"inputs"`
	OutputType  string               `json:"output_type"`
}
