package parser

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/ChannelSubs/internal/config"
	"github.com/Belphemur/ChannelSubs/internal/models"
)

// VideoPageParser extracts the metadata of a single video from its public page.
type VideoPageParser struct{}

// NewVideoPageParser creates a new video page parser instance
func NewVideoPageParser() *VideoPageParser {
	return &VideoPageParser{}
}

// releaseDateLayouts are tried in order when reading the release date.
var releaseDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseHtml reads title, release date and channel name from the page's meta tags.
// The returned video has no VideoSeq; callers take it from the page URL.
func (p *VideoPageParser) ParseHtml(body io.Reader) (models.OfficialVideo, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return models.OfficialVideo{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	video := models.OfficialVideo{
		Title: metaContent(doc, `meta[property="og:title"]`),
		ChannelName: firstNonEmpty(
			metaContent(doc, `meta[name="channel-name"]`),
			metaContent(doc, `meta[property="og:site_name"]`),
		),
	}
	if video.Title == "" {
		video.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if video.Title == "" {
		return models.OfficialVideo{}, fmt.Errorf("video page has no title")
	}

	if raw := metaContent(doc, `meta[property="video:release_date"]`); raw != "" {
		for _, layout := range releaseDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				video.CreatedAt = t.UTC()
				break
			}
		}
		if video.CreatedAt.IsZero() {
			logger.Warn().Str("release_date", raw).Msg("Unrecognised release date on video page")
		}
	}

	logger.Debug().
		Str("title", video.Title).
		Str("channel", video.ChannelName).
		Time("created_at", video.CreatedAt).
		Msg("Parsed video page")
	return video, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
