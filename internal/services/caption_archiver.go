package services

import (
	"context"

	"github.com/Belphemur/ChannelSubs/internal/models"
)

// CaptionArchiver downloads the captions (and optionally the videos) of a
// list of channel boards or video pages.
type CaptionArchiver interface {
	// ArchiveBoards processes channel board URLs, one per entry.
	// Entries that are not board URLs are skipped with a warning.
	ArchiveBoards(ctx context.Context, boardURLs []string) (models.RunSummary, error)

	// ArchiveVideos processes public video page URLs.
	ArchiveVideos(ctx context.Context, videoURLs []string) (models.RunSummary, error)
}
