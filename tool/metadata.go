package tool

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gocnn/ytagent"
)

// Video metadata and thumbnails, both read from the player response's
// videoDetails and microformat sections.

// Metadata holds the fields the player response exposes for a video.
type Metadata struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Duration    int    `json:"duration_seconds"`
	Views       int64  `json:"views"`
	Description string `json:"description,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	Category    string `json:"category,omitempty"`
	Live        bool   `json:"live,omitempty"`
}

// Thumbnail is one available thumbnail variant.
type Thumbnail struct {
	URL        string `json:"url"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Resolution string `json:"resolution"`
}

// FetchMetadata fetches a video's metadata.
func (y *YouTube) FetchMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	player, err := y.fetchPlayer(ctx, videoID)
	if err != nil {
		return nil, err
	}
	details := player.VideoDetails
	if details == nil {
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("video unavailable: %s", player.PlayabilityStatus.Reason)
		}
		return nil, errors.New("no video details in player response")
	}

	duration, _ := strconv.Atoi(details.LengthSeconds)
	views, _ := strconv.ParseInt(details.ViewCount, 10, 64)

	meta := &Metadata{
		VideoID:     details.VideoID,
		Title:       details.Title,
		Channel:     details.Author,
		Duration:    duration,
		Views:       views,
		Description: truncateSnippet(details.ShortDescription, 500),
		Live:        details.IsLiveContent,
	}
	if player.Microformat != nil && player.Microformat.PlayerMicroformatRenderer != nil {
		mf := player.Microformat.PlayerMicroformatRenderer
		meta.PublishDate = mf.PublishDate
		meta.Category = mf.Category
	}
	return meta, nil
}

// FetchThumbnails fetches a video's available thumbnails in YouTube's
// native order.
func (y *YouTube) FetchThumbnails(ctx context.Context, videoID string) ([]Thumbnail, error) {
	player, err := y.fetchPlayer(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if player.VideoDetails == nil {
		return nil, errors.New("no video details in player response")
	}

	raw := player.VideoDetails.Thumbnail.Thumbnails
	thumbs := make([]Thumbnail, 0, len(raw))
	for _, t := range raw {
		if t.URL == "" {
			continue
		}
		thumbs = append(thumbs, Thumbnail{
			URL:        t.URL,
			Width:      t.Width,
			Height:     t.Height,
			Resolution: fmt.Sprintf("%dx%d", t.Width, t.Height),
		})
	}
	if len(thumbs) == 0 {
		return nil, errors.New("no thumbnails in player response")
	}
	return thumbs, nil
}

// MetadataTool extracts metadata from a YouTube URL.
type MetadataTool struct {
	ytagent.BaseTool
	yt *YouTube
}

// NewMetadataTool creates the get_full_metadata tool.
func NewMetadataTool(yt *YouTube) *MetadataTool {
	return &MetadataTool{yt: yt}
}

func (t *MetadataTool) Name() string { return "get_full_metadata" }

func (t *MetadataTool) Description() string {
	return "Extract metadata from a YouTube URL, including title, views, duration, and channel."
}

func (t *MetadataTool) OutputType() string { return "object" }

func (t *MetadataTool) Inputs() map[string]ytagent.ToolInput {
	return map[string]ytagent.ToolInput{
		"url": {Type: "string", Description: "YouTube video URL (any format) or bare video ID", Required: true},
	}
}

func (t *MetadataTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	rawURL, _ := args["url"].(string)
	videoID, err := resolveVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return t.yt.FetchMetadata(ctx, videoID)
}

// ThumbnailsTool lists available thumbnails for a YouTube video.
type ThumbnailsTool struct {
	ytagent.BaseTool
	yt *YouTube
}

// NewThumbnailsTool creates the get_thumbnails tool.
func NewThumbnailsTool(yt *YouTube) *ThumbnailsTool {
	return &ThumbnailsTool{yt: yt}
}

func (t *ThumbnailsTool) Name() string { return "get_thumbnails" }

func (t *ThumbnailsTool) Description() string {
	return "Get available thumbnails for a YouTube video using its URL."
}

func (t *ThumbnailsTool) OutputType() string { return "array" }

func (t *ThumbnailsTool) Inputs() map[string]ytagent.ToolInput {
	return map[string]ytagent.ToolInput{
		"url": {Type: "string", Description: "YouTube video URL (any format) or bare video ID", Required: true},
	}
}

func (t *ThumbnailsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	rawURL, _ := args["url"].(string)
	videoID, err := resolveVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return t.yt.FetchThumbnails(ctx, videoID)
}
