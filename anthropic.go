package ytagent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicModel implements Model using the official Anthropic Go SDK.
type AnthropicModel struct {
	client    anthropic.Client
	modelID   string
	maxTokens int64
}

// AnthropicOption configures AnthropicModel.
type AnthropicOption func(*AnthropicModel)

// WithAnthropicMaxTokens sets default max tokens.
func WithAnthropicMaxTokens(n int64) AnthropicOption {
	return func(m *AnthropicModel) { m.maxTokens = n }
}

// NewAnthropicModel creates an Anthropic model using the official SDK.
func NewAnthropicModel(modelID, apiKey string, opts ...AnthropicOption) *AnthropicModel {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	m := &AnthropicModel{
		client:    client,
		modelID:   modelID,
		maxTokens: 4096,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *AnthropicModel) ModelID() string { return m.modelID }

// Generate sends the conversation to the Anthropic Messages API and returns
// the response.
func (m *AnthropicModel) Generate(ctx context.Context, messages []Message, opts ...GenerateOption) (*Message, error) {
	options := &GenerateOptions{MaxTokens: m.maxTokens}
	for _, opt := range opts {
		opt(options)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.modelID),
		MaxTokens: options.MaxTokens,
		Messages:  m.convertMessages(messages),
	}

	// Anthropic takes the system prompt as a top-level parameter.
	for _, msg := range messages {
		if msg.Role == RoleSystem && msg.Content != "" {
			params.System = []anthropic.TextBlockParam{{Text: msg.Content}}
			break
		}
	}

	if len(options.Tools) > 0 {
		params.Tools = m.convertTools(options.Tools)
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic message failed: %w", err)
	}

	result := &Message{
		Role: RoleAssistant,
		TokenUsage: &TokenUsage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}

	for _, block := range resp.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			result.Content += block.Text
		case anthropic.ToolUseBlock:
			inputJSON, _ := json.Marshal(block.Input)
			var args map[string]any
			if err := json.Unmarshal(inputJSON, &args); err != nil {
				args = map[string]any{"raw": string(inputJSON)}
			}
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	return result, nil
}

// convertMessages maps the conversation onto the Anthropic wire format:
// assistant tool calls replay as tool_use blocks and tool results travel
// inside user messages as tool_result blocks.
func (m *AnthropicModel) convertMessages(messages []Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case RoleAssistant:
			blocks := []anthropic.ContentBlockParamUnion{}
			if msg.Content != "" {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfText: &anthropic.TextBlockParam{Text: msg.Content},
				})
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: tc.Arguments,
					},
				})
			}
			if len(blocks) > 0 {
				result = append(result, anthropic.NewAssistantMessage(blocks...))
			}
		case RoleTool:
			result = append(result, anthropic.NewUserMessage(anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: msg.ToolCallID,
					Content: []anthropic.ToolResultBlockParamContentUnion{
						{OfText: &anthropic.TextBlockParam{Text: msg.Content}},
					},
				},
			}))
		}
	}
	return result
}

func (m *AnthropicModel) convertTools(tools []Tool) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		props := make(map[string]any)
		for _, name := range InputNames(tool) {
			input := tool.Inputs()[name]
			props[name] = map[string]any{
				"type":        input.Type,
				"description": input.Description,
			}
		}
		result = append(result, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name(),
				Description: anthropic.String(tool.Description()),
				InputSchema: anthropic.ToolInputSchemaParam{Properties: props},
			},
		})
	}
	return result
}
