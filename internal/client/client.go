package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/ChannelSubs/internal/config"
	"github.com/Belphemur/ChannelSubs/internal/models"
	"github.com/Belphemur/ChannelSubs/internal/parser"
	"github.com/Belphemur/ChannelSubs/internal/retry"
)

// Client defines the interface for querying the video platform
type Client interface {
	GetChannel(ctx context.Context, channelCode string) (models.Channel, error)
	GetPlayInfo(ctx context.Context, videoSeq string) (models.PlayInfo, error)
	GetVideoPage(ctx context.Context, pageURL string) (models.OfficialVideo, error)

	// StreamBoardPosts lazily enumerates the posts of a board, one page at a time.
	// The channel is closed when the board is exhausted or the context is cancelled.
	// Errors are sent as StreamResult with a non-nil Err field and end the stream.
	StreamBoardPosts(ctx context.Context, board models.ChannelBoard) <-chan models.StreamResult[models.BoardPost]

	// DownloadCaption fetches the raw WebVTT content of a caption.
	DownloadCaption(ctx context.Context, sourceURL string) ([]byte, error)
	// DownloadVideo streams a video file into w and returns the number of bytes written.
	DownloadVideo(ctx context.Context, sourceURL string, w io.Writer) (int64, error)
}

// client implements the Client interface
type client struct {
	httpClient       *http.Client
	baseURL          string
	userAgent        string
	pageSize         int
	pageRetry        retry.Policy
	captionRetryWait time.Duration
	videoPageParser  parser.SingleResultParser[models.OfficialVideo]
}

// NewClient creates a new client instance with proxy configuration if provided
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()

	// Parse timeout duration
	timeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to preserve all its settings (timeouts, connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.GetUserAgent()
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newCompressionTransport(baseTransport),
		},
		baseURL:          cfg.APIBaseURL,
		userAgent:        userAgent,
		pageSize:         pageSize,
		pageRetry:        retry.PolicyFromConfig(cfg),
		captionRetryWait: cfg.RetryDelay(),
		videoPageParser:  parser.NewVideoPageParser(),
	}
}
