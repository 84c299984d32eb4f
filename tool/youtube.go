// Package tool provides YouTube tools for the ytagent loop: video ID
// extraction, transcript fetching, search, metadata, and thumbnails.
//
// Implementation is split by responsibility:
//
//	youtube.go    - shared YouTube client, URL parsing, extract_video_id
//	innertube.go  - Innertube API types and player-response fetching
//	transcript.go - fetch_transcript (caption track selection, timedtext)
//	search.go     - search_youtube (Data API v3 + ytInitialData scraping)
//	metadata.go   - get_full_metadata and get_thumbnails
package tool

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gocnn/ytagent"
)

const userAgentChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// videoIDRE matches the 11-char video ID in watch?v=, youtu.be/ and embed/
// URL forms.
var videoIDRE = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)

// bareIDRE matches a bare 11-char video ID.
var bareIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// extractVideoID pulls the 11-char video ID from any YouTube URL format.
func extractVideoID(rawURL string) string {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// resolveVideoID accepts either a YouTube URL or a bare video ID.
func resolveVideoID(urlOrID string) (string, error) {
	if id := extractVideoID(urlOrID); id != "" {
		return id, nil
	}
	if bareIDRE.MatchString(urlOrID) {
		return urlOrID, nil
	}
	return "", fmt.Errorf("invalid YouTube URL: %q", urlOrID)
}

// YouTube is the shared client for tools that talk to YouTube. Endpoints
// are configurable so tests can point it at a local server.
type YouTube struct {
	client      *http.Client
	retry       RetryConfig
	apiKey      string
	siteBase    string
	dataAPIBase string
}

// YouTubeOption configures the YouTube client.
type YouTubeOption func(*YouTube)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) YouTubeOption {
	return func(y *YouTube) { y.client = c }
}

// WithRetryConfig sets the retry behavior.
func WithRetryConfig(rc RetryConfig) YouTubeOption {
	return func(y *YouTube) { y.retry = rc }
}

// WithAPIKey sets a YouTube Data API v3 key. Search uses the Data API
// when a key is present and falls back to page scraping otherwise.
func WithAPIKey(key string) YouTubeOption {
	return func(y *YouTube) { y.apiKey = key }
}

// WithSiteBase overrides the youtube.com base URL.
func WithSiteBase(base string) YouTubeOption {
	return func(y *YouTube) { y.siteBase = base }
}

// WithDataAPIBase overrides the Data API base URL.
func WithDataAPIBase(base string) YouTubeOption {
	return func(y *YouTube) { y.dataAPIBase = base }
}

// NewYouTube creates a YouTube client with sane defaults.
func NewYouTube(opts ...YouTubeOption) *YouTube {
	y := &YouTube{
		client:      &http.Client{Timeout: 30 * time.Second},
		retry:       DefaultRetryConfig,
		siteBase:    "https://www.youtube.com",
		dataAPIBase: "https://www.googleapis.com/youtube/v3",
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// VideoIDTool extracts the 11-character video ID from a YouTube URL.
type VideoIDTool struct {
	ytagent.BaseTool
}

// NewVideoIDTool creates the extract_video_id tool.
func NewVideoIDTool() *VideoIDTool {
	return &VideoIDTool{}
}

func (t *VideoIDTool) Name() string { return "extract_video_id" }

func (t *VideoIDTool) Description() string {
	return "Extracts the 11-character YouTube video ID from a URL."
}

func (t *VideoIDTool) OutputType() string { return "string" }

func (t *VideoIDTool) Inputs() map[string]ytagent.ToolInput {
	return map[string]ytagent.ToolInput{
		"url": {Type: "string", Description: "A YouTube URL containing a video ID", Required: true},
	}
}

func (t *VideoIDTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	rawURL, _ := args["url"].(string)
	id := extractVideoID(rawURL)
	if id == "" {
		return nil, fmt.Errorf("invalid YouTube URL: %q", rawURL)
	}
	return id, nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by
// tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}
