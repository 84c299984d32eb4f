package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gocnn/ytagent"
	"github.com/gocnn/ytagent/tool"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	modelID := os.Getenv("ANTHROPIC_MODEL")
	if modelID == "" {
		modelID = "claude-sonnet-4-20250514"
	}

	yt := tool.NewYouTube()

	agent, err := ytagent.New(
		[]ytagent.Tool{
			tool.NewVideoIDTool(),
			tool.NewSearchTool(yt, 5),
			tool.NewMetadataTool(yt),
		},
		ytagent.WithModel(ytagent.NewAnthropicModel(modelID, apiKey)),
		ytagent.WithParallelTools(true),
		ytagent.WithCallback("all", func(e ytagent.Event) {
			switch ev := e.(type) {
			case *ytagent.ModelResponseEvent:
				fmt.Printf("--- Iteration %d: %d tool calls ---\n", ev.Iteration, len(ev.Message.ToolCalls))
			case *ytagent.ToolResultEvent:
				fmt.Printf("  -> %s (ok=%v)\n", ev.Call.Name, ev.Result.OK)
			}
		}),
	)
	if err != nil {
		log.Fatalf("Agent setup error: %v", err)
	}

	result, err := agent.Run(context.Background(),
		"Search for 'Generative AI IBM' and get the metadata of the first result")
	if err != nil {
		log.Fatalf("Agent error: %v", err)
	}

	fmt.Printf("\nRESULT:\n%s\n", result.Answer)
}
