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

	apiKey := os.Getenv("OPENAI_API_KEY")
	baseURL := os.Getenv("OPENAI_BASE_URL") // e.g. http://localhost:11434/v1 for Ollama
	modelID := os.Getenv("OPENAI_MODEL")
	if modelID == "" {
		modelID = "gpt-4o-mini"
	}

	var model ytagent.Model
	if baseURL != "" {
		model = ytagent.NewOpenAIModelWithBaseURL(modelID, apiKey, baseURL)
	} else {
		model = ytagent.NewOpenAIModel(modelID, apiKey)
	}

	yt := tool.NewYouTube(tool.WithAPIKey(os.Getenv("YOUTUBE_API_KEY")))

	agent, err := ytagent.New(
		[]ytagent.Tool{
			tool.NewVideoIDTool(),
			tool.NewTranscriptTool(yt),
			tool.NewSearchTool(yt, 5),
			tool.NewMetadataTool(yt),
			tool.NewThumbnailsTool(yt),
		},
		ytagent.WithModel(model),
		ytagent.WithMaxIterations(10),
		ytagent.WithCallback("tool_result", func(e ytagent.Event) {
			ev := e.(*ytagent.ToolResultEvent)
			preview := ev.Result.Content
			if len(preview) > 100 {
				preview = preview[:100] + "..."
			}
			fmt.Printf("  -> %s: %s\n", ev.Call.Name, preview)
		}),
	)
	if err != nil {
		log.Fatalf("Agent setup error: %v", err)
	}

	query := `Summarize this YouTube video: https://www.youtube.com/watch?v=T-D1OfcDW1M

To do this:
1. First use extract_video_id to get the video ID
2. Then use fetch_transcript to get the transcript
3. Finally, summarize the content`

	result, err := agent.Run(context.Background(), query)
	if err != nil {
		log.Fatalf("Agent error: %v", err)
	}

	fmt.Printf("\nFINAL ANSWER:\n%s\n\n", result.Answer)
	fmt.Printf("State: %s\n", result.State)
	fmt.Printf("Messages: %d\n", len(result.Messages))
	fmt.Printf("Tokens: %d\n", result.TokenUsage.Total())
}
