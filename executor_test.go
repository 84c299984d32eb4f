package ytagent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func testRegistry(t *testing.T, tools ...Tool) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			t.Fatalf("Register(%s): %v", tool.Name(), err)
		}
	}
	return r
}

func upperTool() Tool {
	return NewFuncTool("upper", "uppercases text", map[string]ToolInput{
		"text": {Type: "string", Required: true},
	}, "string", func(ctx context.Context, args map[string]any) (any, error) {
		return strings.ToUpper(args["text"].(string)), nil
	})
}

func TestExecuteAllOrderAndCount(t *testing.T) {
	fail := NewFuncTool("fail", "always fails", map[string]ToolInput{},
		"string", func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		})
	e := NewExecutor(testRegistry(t, upperTool(), fail))

	calls := []ToolCall{
		{ID: "c1", Name: "upper", Arguments: map[string]any{"text": "one"}},
		{ID: "c2", Name: "fail", Arguments: map[string]any{}},
		{ID: "c3", Name: "upper", Arguments: map[string]any{"text": "three"}},
		{ID: "c4", Name: "no_such_tool", Arguments: map[string]any{}},
	}

	results, err := e.ExecuteAll(context.Background(), calls)
	if err != nil {
		t.Fatalf("ExecuteAll: %v", err)
	}
	if len(results) != len(calls) {
		t.Fatalf("got %d results, want %d", len(results), len(calls))
	}
	for i, res := range results {
		if res.ToolCallID != calls[i].ID {
			t.Errorf("results[%d].ToolCallID = %q, want %q", i, res.ToolCallID, calls[i].ID)
		}
	}
	if !results[0].OK || results[0].Content != "ONE" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].OK || !strings.Contains(results[1].Content, "boom") {
		t.Errorf("results[1] = %+v", results[1])
	}
	if !results[2].OK || results[2].Content != "THREE" {
		t.Errorf("results[2] = %+v", results[2])
	}
	if results[3].OK || !strings.Contains(results[3].Content, "no_such_tool") {
		t.Errorf("results[3] = %+v", results[3])
	}
}

func TestExecuteNeverErrors(t *testing.T) {
	panicky := NewFuncTool("panicky", "panics", map[string]ToolInput{},
		"string", func(ctx context.Context, args map[string]any) (any, error) {
			panic("unreachable state")
		})
	e := NewExecutor(testRegistry(t, upperTool(), panicky))

	tests := []struct {
		name    string
		call    ToolCall
		wantSub string
	}{
		{
			name:    "unknown tool",
			call:    ToolCall{ID: "c1", Name: "missing", Arguments: map[string]any{}},
			wantSub: "missing",
		},
		{
			name:    "missing required argument",
			call:    ToolCall{ID: "c2", Name: "upper", Arguments: map[string]any{}},
			wantSub: "text",
		},
		{
			name:    "wrong argument type",
			call:    ToolCall{ID: "c3", Name: "upper", Arguments: map[string]any{"text": 42.0}},
			wantSub: "expected string",
		},
		{
			name:    "panicking tool",
			call:    ToolCall{ID: "c4", Name: "panicky", Arguments: map[string]any{}},
			wantSub: "panic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Execute(context.Background(), tt.call)
			if res.OK {
				t.Fatalf("result unexpectedly OK: %+v", res)
			}
			if res.ToolCallID != tt.call.ID {
				t.Errorf("ToolCallID = %q, want %q", res.ToolCallID, tt.call.ID)
			}
			if !strings.HasPrefix(res.Content, "Error:") {
				t.Errorf("content missing Error prefix: %q", res.Content)
			}
			if !strings.Contains(res.Content, tt.wantSub) {
				t.Errorf("content = %q, want substring %q", res.Content, tt.wantSub)
			}
		})
	}
}

func TestExecuteAppliesDefaults(t *testing.T) {
	var got map[string]any
	tool := NewFuncTool("with_default", "has a default", map[string]ToolInput{
		"query": {Type: "string", Required: true},
		"limit": {Type: "integer", Default: 5},
	}, "string", func(ctx context.Context, args map[string]any) (any, error) {
		got = args
		return "ok", nil
	})
	e := NewExecutor(testRegistry(t, tool))

	res := e.Execute(context.Background(), ToolCall{
		ID: "c1", Name: "with_default", Arguments: map[string]any{"query": "go"},
	})
	if !res.OK {
		t.Fatalf("result not OK: %+v", res)
	}
	if got["limit"] != 5 {
		t.Errorf("limit = %v (%T), want 5", got["limit"], got["limit"])
	}
}

func TestExecuteCoercesIntegerFromFloat(t *testing.T) {
	var got any
	tool := NewFuncTool("count", "takes an integer", map[string]ToolInput{
		"n": {Type: "integer", Required: true},
	}, "string", func(ctx context.Context, args map[string]any) (any, error) {
		got = args["n"]
		return "ok", nil
	})
	e := NewExecutor(testRegistry(t, tool))

	// JSON decoding hands numbers to tools as float64.
	res := e.Execute(context.Background(), ToolCall{
		ID: "c1", Name: "count", Arguments: map[string]any{"n": 3.0},
	})
	if !res.OK {
		t.Fatalf("result not OK: %+v", res)
	}
	if n, ok := got.(int); !ok || n != 3 {
		t.Errorf("n = %v (%T), want int 3", got, got)
	}

	res = e.Execute(context.Background(), ToolCall{
		ID: "c2", Name: "count", Arguments: map[string]any{"n": 3.5},
	})
	if res.OK {
		t.Errorf("fractional value accepted as integer: %+v", res)
	}
}

func TestExecuteParallelKeepsRequestOrder(t *testing.T) {
	var mu sync.Mutex
	var started []string

	slow := func(name string, d time.Duration) Tool {
		return NewFuncTool(name, "sleeps", map[string]ToolInput{},
			"string", func(ctx context.Context, args map[string]any) (any, error) {
				mu.Lock()
				started = append(started, name)
				mu.Unlock()
				time.Sleep(d)
				return name, nil
			})
	}
	e := NewExecutor(
		testRegistry(t, slow("slow", 30*time.Millisecond), slow("fast", 0)),
		WithParallel(true),
	)

	calls := []ToolCall{
		{ID: "c1", Name: "slow", Arguments: map[string]any{}},
		{ID: "c2", Name: "fast", Arguments: map[string]any{}},
	}
	results, err := e.ExecuteAll(context.Background(), calls)
	if err != nil {
		t.Fatalf("ExecuteAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	// Completion order may differ; result order must not.
	if results[0].Content != "slow" || results[1].Content != "fast" {
		t.Errorf("results out of request order: %q, %q", results[0].Content, results[1].Content)
	}
	if len(started) != 2 {
		t.Errorf("expected both tools to run, started = %v", started)
	}
}

func TestExecuteAllCancelledContext(t *testing.T) {
	e := NewExecutor(testRegistry(t, upperTool()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.ExecuteAll(ctx, []ToolCall{
		{ID: "c1", Name: "upper", Arguments: map[string]any{"text": "x"}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results after cancellation, got %d", len(results))
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string passthrough", "hello", "hello"},
		{"error", errors.New("bad"), "bad"},
		{"map as JSON", map[string]any{"a": 1}, `{"a":1}`},
		{"slice as JSON", []string{"x", "y"}, `["x","y"]`},
		{"int", 7, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringify(tt.in); got != tt.want {
				t.Errorf("stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
		want     any
		wantErr  bool
	}{
		{"string ok", "x", "string", "x", false},
		{"string from number", 1.0, "string", nil, true},
		{"number from float", 1.5, "number", 1.5, false},
		{"number from int", 2, "number", 2.0, false},
		{"integer from int", 3, "integer", 3, false},
		{"integer from whole float", 4.0, "integer", 4, false},
		{"integer from fractional float", 4.5, "integer", nil, true},
		{"boolean ok", true, "boolean", true, false},
		{"array ok", []any{1.0}, "array", []any{1.0}, false},
		{"object ok", map[string]any{}, "object", map[string]any{}, false},
		{"untyped passthrough", "x", "", "x", false},
		{"unknown schema type", "x", "blob", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceValue(tt.value, tt.expected)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("coerceValue(%v, %q) = %v, want error", tt.value, tt.expected, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("coerceValue(%v, %q): %v", tt.value, tt.expected, err)
			}
			switch want := tt.want.(type) {
			case []any:
				if _, ok := got.([]any); !ok {
					t.Errorf("got %T, want []any", got)
				}
			case map[string]any:
				if _, ok := got.(map[string]any); !ok {
					t.Errorf("got %T, want map[string]any", got)
				}
			default:
				if got != want {
					t.Errorf("got %v (%T), want %v (%T)", got, got, want, want)
				}
			}
		})
	}
}
