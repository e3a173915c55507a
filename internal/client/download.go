package client

import (
	"context"
	"fmt"
	"io"

	"github.com/cenkalti/backoff/v4"

	"github.com/Belphemur/ChannelSubs/internal/apperrors"
	"github.com/Belphemur/ChannelSubs/internal/config"
)

// captionDownloadRetries bounds the retries of a single caption file fetch.
const captionDownloadRetries = 3

// DownloadCaption fetches a caption file, retrying transient failures a few
// times with a constant pause.
func (c *client) DownloadCaption(ctx context.Context, sourceURL string) ([]byte, error) {
	logger := config.GetLogger()

	var content []byte
	operation := func() error {
		body, _, err := c.fetch(ctx, "caption", sourceURL)
		if err != nil {
			if apperrors.IsRetryable(err) {
				logger.Debug().Err(err).Str("url", sourceURL).Msg("Caption download failed, retrying")
				return err
			}
			return backoff.Permanent(err)
		}
		content = body
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.captionRetryWait), captionDownloadRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("download caption %s: %w", sourceURL, err)
	}
	return content, nil
}

// DownloadVideo streams a video into w without buffering it in memory.
func (c *client) DownloadVideo(ctx context.Context, sourceURL string, w io.Writer) (int64, error) {
	resp, err := c.open(ctx, "video", sourceURL)
	if err != nil {
		return 0, fmt.Errorf("download video %s: %w", sourceURL, err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download video %s: copy body: %w", sourceURL, err)
	}
	return n, nil
}
