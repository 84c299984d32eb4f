package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gocnn/ytagent"
)

// YouTube search: Data API v3 when a key is configured, ytInitialData
// scraping otherwise.

const (
	ytInitialDataMarker = "var ytInitialData = "
	ytSearchFilter      = "EgIQAQ%3D%3D" // videos-only filter param
)

// Video is one search result.
type Video struct {
	ID      string `json:"video_id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Channel string `json:"channel,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// --- ytInitialData scraping types ---

type ytVideoRenderer struct {
	VideoID string `json:"videoId"`
	Title   struct {
		Runs []struct{ Text string } `json:"runs"`
	} `json:"title"`
	OwnerText struct {
		Runs []struct{ Text string } `json:"runs"`
	} `json:"ownerText"`
	DescriptionSnippet *struct {
		Runs []struct{ Text string } `json:"runs"`
	} `json:"descriptionSnippet"`
}

// Search searches YouTube videos. Uses the Data API v3 when a key is
// configured; otherwise scrapes ytInitialData from the results page.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]Video, error) {
	if limit <= 0 || limit > 10 {
		limit = 5
	}
	if y.apiKey != "" {
		return y.searchDataAPI(ctx, query, limit)
	}
	return y.searchInitialData(ctx, query, limit)
}

func (y *YouTube) searchDataAPI(ctx context.Context, query string, limit int) ([]Video, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", fmt.Sprintf("%d", limit))
	params.Set("key", y.apiKey)

	apiURL := y.dataAPIBase + "/search?" + params.Encode()
	resp, err := RetryHTTP(ctx, y.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		return y.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("youtube data API %d: %s", resp.StatusCode, string(body))
	}

	var result ytDataSearchResp
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode youtube data API: %w", err)
	}

	videos := make([]Video, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:      item.ID.VideoID,
			Title:   item.Snippet.Title,
			URL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Channel: item.Snippet.ChannelTitle,
			Snippet: truncateSnippet(item.Snippet.Description, 200),
		})
	}
	return videos, nil
}

func (y *YouTube) searchInitialData(ctx context.Context, query string, limit int) ([]Video, error) {
	searchURL := y.siteBase + "/results?search_query=" + url.QueryEscape(query) + "&sp=" + ytSearchFilter

	resp, err := RetryHTTP(ctx, y.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		return y.client.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read youtube search response: %w", err)
	}

	idx := strings.Index(string(body), ytInitialDataMarker)
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialData not found in YouTube search response")
	}
	jsonData := extractJSON(body[idx+len(ytInitialDataMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("failed to extract ytInitialData JSON")
	}
	return videosFromInitialData(jsonData, limit), nil
}

// videosFromInitialData recursively walks ytInitialData JSON for
// videoRenderer entries.
func videosFromInitialData(data []byte, limit int) []Video {
	var results []Video
	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if len(results) >= limit {
			return
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(v, &obj); err == nil {
			if raw, ok := obj["videoRenderer"]; ok {
				var vr ytVideoRenderer
				if err := json.Unmarshal(raw, &vr); err == nil && vr.VideoID != "" {
					title := ""
					if len(vr.Title.Runs) > 0 {
						title = vr.Title.Runs[0].Text
					}
					channel := ""
					if len(vr.OwnerText.Runs) > 0 {
						channel = vr.OwnerText.Runs[0].Text
					}
					var snippetParts []string
					if vr.DescriptionSnippet != nil {
						for _, r := range vr.DescriptionSnippet.Runs {
							snippetParts = append(snippetParts, r.Text)
						}
					}
					results = append(results, Video{
						ID:      vr.VideoID,
						Title:   title,
						URL:     "https://www.youtube.com/watch?v=" + vr.VideoID,
						Channel: channel,
						Snippet: truncateSnippet(strings.Join(snippetParts, ""), 200),
					})
					return
				}
			}
			for _, child := range obj {
				if len(results) >= limit {
					return
				}
				walk(child)
			}
			return
		}
		var arr []json.RawMessage
		if err := json.Unmarshal(v, &arr); err == nil {
			for _, item := range arr {
				if len(results) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return results
}

func truncateSnippet(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// SearchTool searches YouTube for videos matching a query.
type SearchTool struct {
	ytagent.BaseTool
	yt         *YouTube
	maxResults int
}

// NewSearchTool creates the search_youtube tool.
func NewSearchTool(yt *YouTube, maxResults int) *SearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SearchTool{yt: yt, maxResults: maxResults}
}

func (t *SearchTool) Name() string { return "search_youtube" }

func (t *SearchTool) Description() string {
	return "Search YouTube for videos matching the query. Returns titles, video IDs, and URLs."
}

func (t *SearchTool) OutputType() string { return "array" }

func (t *SearchTool) Inputs() map[string]ytagent.ToolInput {
	return map[string]ytagent.ToolInput{
		"query": {Type: "string", Description: "The search term to look for on YouTube", Required: true},
		"limit": {Type: "integer", Description: "Maximum number of results", Default: 5},
	}
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	query, _ := args["query"].(string)
	limit := t.maxResults
	if n, ok := args["limit"].(int); ok && n > 0 {
		limit = n
	}
	videos, err := t.yt.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return "No videos found.", nil
	}
	return videos, nil
}
