package ytagent

// Event is the interface for loop observability events.
type Event interface {
	EventType() string
}

// ModelResponseEvent fires after every model gateway response.
type ModelResponseEvent struct {
	Iteration int
	Message   Message
}

func (e *ModelResponseEvent) EventType() string { return "model_response" }

// ToolResultEvent fires after every tool execution.
type ToolResultEvent struct {
	Iteration int
	Call      ToolCall
	Result    ToolResult
}

func (e *ToolResultEvent) EventType() string { return "tool_result" }

// CallbackRegistry manages event callbacks.
type CallbackRegistry struct {
	callbacks map[string][]func(Event)
}

// NewCallbackRegistry creates a callback registry.
func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{callbacks: make(map[string][]func(Event))}
}

// Register adds a callback for an event type.
func (r *CallbackRegistry) Register(eventType string, fn func(Event)) {
	r.callbacks[eventType] = append(r.callbacks[eventType], fn)
}

// Trigger fires callbacks for an event.
func (r *CallbackRegistry) Trigger(event Event) {
	for _, fn := range r.callbacks[event.EventType()] {
		fn(event)
	}
	// Also trigger "all" callbacks
	for _, fn := range r.callbacks["all"] {
		fn(event)
	}
}
