// Package ytagent provides a tool-calling agent loop for answering
// questions about YouTube videos.
//
// The core is the loop protocol: the model's structured tool-call outputs
// are turned into function invocations, their results are appended back
// into the growing conversation, and the cycle repeats until the model
// replies without requesting tools. Tool failures never abort a run; they
// enter the conversation as failed results the model can react to.
//
// Key pieces:
//   - Registry/Tool: named, typed tool implementations resolved by name
//   - Executor: runs tool calls, recovering every failure into a result
//   - Conversation: append-only per-run message history
//   - Model: pluggable gateway (OpenAI-compatible, Anthropic)
//   - Agent: the loop controller with iteration budget and cancellation
//
// Basic usage:
//
//	yt := tool.NewYouTube()
//	agent, _ := ytagent.New(
//	    []ytagent.Tool{tool.NewVideoIDTool(), tool.NewTranscriptTool(yt)},
//	    ytagent.WithModel(ytagent.NewOpenAIModel("gpt-4o-mini", apiKey)),
//	)
//	result, _ := agent.Run(ctx, "Summarize https://youtu.be/dQw4w9WgXcQ")
//
// For runnable demos, see the example/ directory.
package ytagent
