package ytagent

import "fmt"

// AgentError is the base error type for agent errors.
type AgentError struct {
	Message string
	Cause   error
}

func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AgentError) Unwrap() error { return e.Cause }

// ErrDuplicateTool indicates a tool name is already registered.
type ErrDuplicateTool struct {
	AgentError
	Name string
}

// NewErrDuplicateTool creates a duplicate tool error.
func NewErrDuplicateTool(name string) *ErrDuplicateTool {
	return &ErrDuplicateTool{
		AgentError: AgentError{Message: fmt.Sprintf("tool '%s' already registered", name)},
		Name:       name,
	}
}

// ErrUnknownTool indicates a tool name not present in the registry.
type ErrUnknownTool struct {
	AgentError
	Name string
}

// NewErrUnknownTool creates an unknown tool error.
func NewErrUnknownTool(name string) *ErrUnknownTool {
	return &ErrUnknownTool{
		AgentError: AgentError{Message: fmt.Sprintf("unknown tool: %s", name)},
		Name:       name,
	}
}

// ErrInvalidArguments indicates tool arguments that do not match the
// tool's input schema.
type ErrInvalidArguments struct {
	AgentError
	ToolName string
}

// NewErrInvalidArguments creates an argument shape error.
func NewErrInvalidArguments(toolName string, cause error) *ErrInvalidArguments {
	return &ErrInvalidArguments{
		AgentError: AgentError{
			Message: fmt.Sprintf("invalid arguments for tool '%s'", toolName),
			Cause:   cause,
		},
		ToolName: toolName,
	}
}

// ErrToolExecution indicates a failure inside a tool implementation.
type ErrToolExecution struct {
	AgentError
	ToolName string
}

// NewErrToolExecution creates a tool execution error.
func NewErrToolExecution(toolName string, cause error) *ErrToolExecution {
	return &ErrToolExecution{
		AgentError: AgentError{
			Message: fmt.Sprintf("tool '%s' execution failed", toolName),
			Cause:   cause,
		},
		ToolName: toolName,
	}
}

// ErrMaxIterations indicates the loop exceeded its iteration budget.
type ErrMaxIterations struct{ AgentError }

// NewErrMaxIterations creates a max iterations error.
func NewErrMaxIterations(maxIterations int) *ErrMaxIterations {
	return &ErrMaxIterations{AgentError{Message: fmt.Sprintf("exceeded max iterations: %d", maxIterations)}}
}

// ErrGeneration indicates the model gateway failed to respond. This is
// the one error the loop does not recover: it propagates to the caller.
type ErrGeneration struct{ AgentError }

// NewErrGeneration creates a generation error.
func NewErrGeneration(msg string, cause error) *ErrGeneration {
	return &ErrGeneration{AgentError{Message: msg, Cause: cause}}
}
