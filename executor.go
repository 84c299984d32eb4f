package ytagent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// Executor runs tool calls against a registry. Execute never returns an
// error: unknown tools, malformed arguments, tool failures, and tool panics
// all become failed ToolResults so the model can see them and react.
type Executor struct {
	registry *Registry
	parallel bool
	logger   *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithParallel enables concurrent execution of a turn's tool calls.
// Results are still assembled in request order.
func WithParallel(parallel bool) ExecutorOption {
	return func(e *Executor) { e.parallel = parallel }
}

// WithExecutorLogger sets the executor's logger.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// NewExecutor creates an executor over a registry.
func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a single tool call and always returns a ToolResult.
func (e *Executor) Execute(ctx context.Context, tc ToolCall) (res ToolResult) {
	res = ToolResult{ToolCallID: tc.ID}
	defer func() {
		if r := recover(); r != nil {
			err := NewErrToolExecution(tc.Name, fmt.Errorf("panic: %v", r))
			e.logger.Error("tool panicked", slog.String("tool", tc.Name), slog.Any("err", err))
			res = ToolResult{ToolCallID: tc.ID, Content: "Error: " + err.Error(), OK: false}
		}
	}()

	tool, err := e.registry.Resolve(tc.Name)
	if err != nil {
		res.Content = "Error: " + err.Error()
		return res
	}

	args, err := coerceArgs(tool, tc.Arguments)
	if err != nil {
		res.Content = "Error: " + NewErrInvalidArguments(tc.Name, err).Error()
		return res
	}

	out, err := tool.Execute(ctx, args)
	if err != nil {
		res.Content = "Error: " + NewErrToolExecution(tc.Name, err).Error()
		return res
	}

	res.Content = stringify(out)
	res.OK = true
	return res
}

// ExecuteAll runs every call from one model turn and returns exactly one
// result per call, in request order. The only error it returns is the
// context's, checked before each execution; results produced before the
// cancellation are still returned.
func (e *Executor) ExecuteAll(ctx context.Context, calls []ToolCall) ([]ToolResult, error) {
	if e.parallel && len(calls) > 1 {
		return e.executeParallel(ctx, calls)
	}

	results := make([]ToolResult, 0, len(calls))
	for _, tc := range calls {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, e.Execute(ctx, tc))
	}
	return results, nil
}

// executeParallel runs a turn's calls concurrently. Calls within one turn
// have no ordering dependency on each other's results, so this is safe;
// the indexed slice re-assembles results in request order.
func (e *Executor) executeParallel(ctx context.Context, calls []ToolCall) ([]ToolResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup
	for i, tc := range calls {
		wg.Add(1)
		go func(idx int, tc ToolCall) {
			defer wg.Done()
			results[idx] = e.Execute(ctx, tc)
		}(i, tc)
	}
	wg.Wait()
	return results, nil
}

// coerceArgs validates arguments against the tool's input schema, applies
// defaults for absent optional parameters, and normalizes numeric types.
func coerceArgs(tool Tool, args map[string]any) (map[string]any, error) {
	coerced := make(map[string]any, len(args))
	for k, v := range args {
		coerced[k] = v
	}

	for name, input := range tool.Inputs() {
		val, present := coerced[name]
		if !present {
			if input.Required {
				return nil, fmt.Errorf("missing required argument: %s", name)
			}
			if input.Default != nil {
				coerced[name] = input.Default
			}
			continue
		}
		checked, err := coerceValue(val, input.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		coerced[name] = checked
	}
	return coerced, nil
}

// coerceValue checks a value against a schema type, converting JSON float
// encodings of integers where needed.
func coerceValue(value any, expected string) (any, error) {
	switch expected {
	case "string":
		if s, ok := value.(string); ok {
			return s, nil
		}
	case "number":
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case json.Number:
			return v.Float64()
		}
	case "integer":
		switch v := value.(type) {
		case int:
			return v, nil
		case float64:
			if math.Trunc(v) == v {
				return int(v), nil
			}
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n), nil
			}
		}
	case "boolean":
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case "array":
		if a, ok := value.([]any); ok {
			return a, nil
		}
	case "object":
		if o, ok := value.(map[string]any); ok {
			return o, nil
		}
	case "":
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported schema type %q", expected)
	}
	return nil, fmt.Errorf("expected %s but got %T", expected, value)
}

// stringify normalizes tool output to conversation text. Structured values
// are encoded as JSON so the model sees them intact.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case error:
		return val.Error()
	default:
		if data, err := json.Marshal(val); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", val)
	}
}
