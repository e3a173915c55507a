package client

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Belphemur/ChannelSubs/internal/models"
	"github.com/Belphemur/ChannelSubs/internal/parser"
)

// GetVideoPage scrapes a public video page for its title, upload date and channel.
func (c *client) GetVideoPage(ctx context.Context, pageURL string) (models.OfficialVideo, error) {
	body, contentType, err := c.fetch(ctx, "video_page", pageURL)
	if err != nil {
		return models.OfficialVideo{}, err
	}

	reader, err := parser.NewUTF8Reader(bytes.NewReader(body), contentType)
	if err != nil {
		return models.OfficialVideo{}, fmt.Errorf("decode video page charset: %w", err)
	}

	video, err := c.videoPageParser.ParseHtml(reader)
	if err != nil {
		return models.OfficialVideo{}, fmt.Errorf("parse video page %s: %w", pageURL, err)
	}
	return video, nil
}
