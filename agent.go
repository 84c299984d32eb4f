package ytagent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxIterationsAnswer is the sentinel answer returned when the loop runs
// out of iterations before the model produces a final answer.
const MaxIterationsAnswer = "Max iterations reached without final answer"

// DefaultMaxIterations bounds a run's model gateway calls.
const DefaultMaxIterations = 10

// Agent alternates between model gateway calls and tool executions until
// the model answers without requesting tools, the iteration budget runs
// out, or the context is cancelled.
type Agent struct {
	model         Model
	tools         *Registry
	executor      *Executor
	callbacks     *CallbackRegistry
	maxIterations int
	systemPrompt  string
	parallelTools bool
	logger        *slog.Logger
	mu            sync.Mutex
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel sets the LLM model.
func WithModel(m Model) Option {
	return func(a *Agent) { a.model = m }
}

// WithMaxIterations sets the maximum model gateway calls per run.
func WithMaxIterations(n int) Option {
	return func(a *Agent) { a.maxIterations = n }
}

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.systemPrompt = prompt }
}

// WithParallelTools executes a turn's tool calls concurrently; results
// still enter the conversation in request order.
func WithParallelTools(parallel bool) Option {
	return func(a *Agent) { a.parallelTools = parallel }
}

// WithLogger sets the agent's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithCallback registers a callback for an event type ("model_response",
// "tool_result", or "all").
func WithCallback(eventType string, fn func(Event)) Option {
	return func(a *Agent) { a.callbacks.Register(eventType, fn) }
}

// New creates an agent. Tools are registered up front and the registry is
// read-only for the agent's lifetime; a duplicate tool name fails with
// *ErrDuplicateTool.
func New(tools []Tool, opts ...Option) (*Agent, error) {
	a := &Agent{
		tools:         NewRegistry(),
		callbacks:     NewCallbackRegistry(),
		maxIterations: DefaultMaxIterations,
		logger:        slog.Default(),
	}
	for _, tool := range tools {
		if err := a.tools.Register(tool); err != nil {
			return nil, err
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.systemPrompt == "" {
		a.systemPrompt = defaultSystemPrompt
	}
	a.executor = NewExecutor(a.tools,
		WithParallel(a.parallelTools),
		WithExecutorLogger(a.logger),
	)
	return a, nil
}

// Tools exposes the agent's registry for inspection.
func (a *Agent) Tools() *Registry { return a.tools }

// RunOptions holds per-run overrides.
type RunOptions struct {
	MaxIterations int
}

// RunOption is a functional option for Run.
type RunOption func(*RunOptions)

// WithRunMaxIterations overrides the agent's iteration budget for one run.
func WithRunMaxIterations(n int) RunOption {
	return func(o *RunOptions) { o.MaxIterations = n }
}

// Run executes the agent loop on a query. Tool-level failures never
// surface here: they are folded into the conversation as failed tool
// results. The returned error is non-nil only when the model gateway
// itself fails (*ErrGeneration) or the context is cancelled; exceeding the
// iteration budget returns the MaxIterationsAnswer sentinel with nil
// error. The partial result is returned alongside any error.
func (a *Agent) Run(ctx context.Context, query string, opts ...RunOption) (*RunResult, error) {
	options := &RunOptions{MaxIterations: a.maxIterations}
	for _, opt := range opts {
		opt(options)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	runID := uuid.NewString()
	logger := a.logger.With(slog.String("run_id", runID))
	startTime := time.Now()

	conv := NewConversation(a.systemPrompt)
	conv.Seed(query)
	state := StateAwaitingModel

	result := func(answer string) *RunResult {
		tokens := conv.TotalTokens()
		return &RunResult{
			RunID:      runID,
			Answer:     answer,
			State:      state,
			Messages:   conv.Messages(),
			TokenUsage: &tokens,
			Timing:     NewTiming(startTime),
		}
	}

	logger.Debug("run started",
		slog.String("model", a.model.ModelID()),
		slog.Int("max_iterations", options.MaxIterations))

	for iter := 1; iter <= options.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			state = StateAborted
			logger.Debug("run cancelled", slog.Int("iteration", iter))
			return result(""), err
		}

		resp, err := a.model.Generate(ctx, conv.Messages(), WithTools(a.tools.All()...))
		if err != nil {
			state = StateAborted
			return result(""), NewErrGeneration("model gateway failed", err)
		}
		conv.Append(*resp)
		a.callbacks.Trigger(&ModelResponseEvent{Iteration: iter, Message: *resp})

		if len(resp.ToolCalls) == 0 {
			state = StateDone
			logger.Debug("run finished", slog.Int("iterations", iter))
			return result(resp.Content), nil
		}

		state = StateExecutingTools
		logger.Debug("executing tools",
			slog.Int("iteration", iter), slog.Int("calls", len(resp.ToolCalls)))

		results, err := a.executor.ExecuteAll(ctx, resp.ToolCalls)
		for i, res := range results {
			conv.AppendToolResult(res)
			a.callbacks.Trigger(&ToolResultEvent{Iteration: iter, Call: resp.ToolCalls[i], Result: res})
		}
		if err != nil {
			state = StateAborted
			logger.Debug("run cancelled during tool execution", slog.Int("iteration", iter))
			return result(""), err
		}
		state = StateAwaitingModel
	}

	state = StateAborted
	logger.Warn("iteration limit reached", slog.Int("max_iterations", options.MaxIterations))
	return result(MaxIterationsAnswer), nil
}

const defaultSystemPrompt = `You are an expert assistant that answers questions about YouTube videos.
Use the available tools to extract video IDs, fetch transcripts, search for videos, and look up metadata.
Call tools as needed; when you have enough information, reply with the final answer as plain text.`
