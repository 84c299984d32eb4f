package tool

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gocnn/ytagent"
)

// YouTube transcript fetching: player response → caption track → timedtext
// XML. Tracks that require a PoToken (&exp=xpe) only work in a browser and
// are skipped.

// --- Timedtext XML types ---

type ytTimedText struct {
	Lines []ytLine `xml:"text"`
}

type ytLine struct {
	Text string `xml:",chardata"`
}

// needsPoToken reports whether a caption track URL requires a PoToken.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack selects the best usable caption track for the given
// language preferences: manual track in a preferred language, then
// auto-generated in a preferred language, then any English track, then
// whatever is left.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return tracks[0], false
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

// cleanCaption strips markup tags and unescapes HTML entities in a
// caption line.
func cleanCaption(s string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(sb.String()))
}

// fetchTimedText fetches and parses a YouTube timedtext XML caption URL.
func (y *YouTube) fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	resp, err := RetryHTTP(ctx, y.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgentChrome)
		return y.client.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return "", err
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := cleanCaption(line.Text)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// FetchTranscript fetches the transcript text for a video in the preferred
// languages.
func (y *YouTube) FetchTranscript(ctx context.Context, videoID string, langs []string) (string, error) {
	player, err := y.fetchPlayer(ctx, videoID)
	if err != nil {
		return "", err
	}
	if player.Captions == nil {
		reason := ""
		if player.PlayabilityStatus != nil {
			reason = player.PlayabilityStatus.Reason
		}
		if reason != "" {
			return "", fmt.Errorf("captions unavailable: %s", reason)
		}
		return "", errors.New("no captions in player response")
	}
	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", errors.New("no caption tracks")
	}
	track, ok := pickBestTrack(tracks, langs)
	if !ok {
		return "", errors.New("all caption tracks require PoToken")
	}

	text, err := y.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("empty transcript")
	}
	return text, nil
}

// TranscriptTool fetches the transcript of a video given its ID.
type TranscriptTool struct {
	ytagent.BaseTool
	yt *YouTube
}

// NewTranscriptTool creates the fetch_transcript tool.
func NewTranscriptTool(yt *YouTube) *TranscriptTool {
	return &TranscriptTool{yt: yt}
}

func (t *TranscriptTool) Name() string { return "fetch_transcript" }

func (t *TranscriptTool) Description() string {
	return "Fetches the transcript of a YouTube video given its ID."
}

func (t *TranscriptTool) OutputType() string { return "string" }

func (t *TranscriptTool) Inputs() map[string]ytagent.ToolInput {
	return map[string]ytagent.ToolInput{
		"video_id": {Type: "string", Description: "The YouTube video ID (e.g., \"dQw4w9WgXcQ\")", Required: true},
		"language": {Type: "string", Description: "Language code for the transcript (e.g., \"en\", \"es\")", Default: "en"},
	}
}

func (t *TranscriptTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	videoID, _ := args["video_id"].(string)
	language, _ := args["language"].(string)
	if language == "" {
		language = "en"
	}
	return t.yt.FetchTranscript(ctx, videoID, []string{language})
}
