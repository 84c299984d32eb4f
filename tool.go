package ytagent

import (
	"context"
	"sort"
)

// Tool is the interface that all tools must implement.
type Tool interface {
	Name() string
	Description() string
	Inputs() map[string]ToolInput
	OutputType() string
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// BaseTool provides common tool functionality.
type BaseTool struct {
	name        string
	description string
	inputs      map[string]ToolInput
	outputType  string
}

func (t *BaseTool) Name() string                 { return t.name }
func (t *BaseTool) Description() string          { return t.description }
func (t *BaseTool) Inputs() map[string]ToolInput { return t.inputs }
func (t *BaseTool) OutputType() string           { return t.outputType }

// Schema returns the tool's schema for LLM consumption.
func (t *BaseTool) Schema() ToolSchema {
	return ToolSchema{
		Name:        t.name,
		Description: t.description,
		Inputs:      t.inputs,
		OutputType:  t.outputType,
	}
}

// InputNames returns a tool's parameter names in deterministic order.
func InputNames(t Tool) []string {
	names := make([]string, 0, len(t.Inputs()))
	for name := range t.Inputs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry manages available tools. Registration order is preserved so the
// model gateway sees a stable tool list across calls.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Registering a name twice fails
// with *ErrDuplicateTool.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return NewErrDuplicateTool(name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Resolve retrieves a tool by name, failing with *ErrUnknownTool when the
// name is not registered.
func (r *Registry) Resolve(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, NewErrUnknownTool(name)
	}
	return t, nil
}

// All returns all registered tools in registration order.
func (r *Registry) All() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Schemas returns descriptors for all tools in registration order.
func (r *Registry) Schemas() []ToolSchema {
	schemas := make([]ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		schemas = append(schemas, ToolSchema{
			Name:        t.Name(),
			Description: t.Description(),
			Inputs:      t.Inputs(),
			OutputType:  t.OutputType(),
		})
	}
	return schemas
}

// FuncTool wraps a Go function as a Tool.
type FuncTool struct {
	BaseTool
	fn func(ctx context.Context, args map[string]any) (any, error)
}

// NewFuncTool creates a tool from a function.
func NewFuncTool(name, description string, inputs map[string]ToolInput, outputType string, fn func(ctx context.Context, args map[string]any) (any, error)) *FuncTool {
	return &FuncTool{
		BaseTool: BaseTool{
			name:        name,
			description: description,
			inputs:      inputs,
			outputType:  outputType,
		},
		fn: fn,
	}
}

func (t *FuncTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	return t.fn(ctx, args)
}
