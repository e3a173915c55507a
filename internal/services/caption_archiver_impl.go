package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Belphemur/ChannelSubs/internal/captions"
	"github.com/Belphemur/ChannelSubs/internal/client"
	"github.com/Belphemur/ChannelSubs/internal/config"
	"github.com/Belphemur/ChannelSubs/internal/metrics"
	"github.com/Belphemur/ChannelSubs/internal/models"
	"github.com/Belphemur/ChannelSubs/internal/reporting"
	"github.com/Belphemur/ChannelSubs/internal/retry"
)

// defaultSeenVideosSize bounds how many video sequences a run remembers.
const defaultSeenVideosSize = 10000

// Options controls what an archiver writes and how hard it tries.
type Options struct {
	OutputDir      string
	DupesOnly      bool
	DownloadVideo  bool
	Retry          retry.Policy
	VideoBaseURL   string // Used to build video links in logs and reports
	SeenVideosSize int
}

// OptionsFromConfig builds archiver options from the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir:      cfg.OutputDir,
		DupesOnly:      cfg.DupesOnly,
		DownloadVideo:  cfg.DownloadVideo,
		Retry:          retry.PolicyFromConfig(cfg),
		VideoBaseURL:   cfg.VideoBaseURL,
		SeenVideosSize: cfg.SeenVideosSize,
	}
}

// DefaultCaptionArchiver processes one video at a time.
type DefaultCaptionArchiver struct {
	client   client.Client
	reporter reporting.Reporter
	opts     Options
	runID    string
	seen     *lru.Cache[string, struct{}]
}

// NewCaptionArchiver creates an archiver. A nil reporter discards reports.
func NewCaptionArchiver(c client.Client, reporter reporting.Reporter, opts Options) (*DefaultCaptionArchiver, error) {
	if opts.SeenVideosSize <= 0 {
		opts.SeenVideosSize = defaultSeenVideosSize
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if reporter == nil {
		reporter = reporting.Nop{}
	}

	seen, err := lru.New[string, struct{}](opts.SeenVideosSize)
	if err != nil {
		return nil, fmt.Errorf("create seen videos set: %w", err)
	}

	return &DefaultCaptionArchiver{
		client:   c,
		reporter: reporter,
		opts:     opts,
		runID:    uuid.NewString(),
		seen:     seen,
	}, nil
}

// ArchiveBoards walks every channel board and archives the captions of each official video.
// A board whose channel or posts cannot be fetched is logged and the run goes on with the next one.
func (a *DefaultCaptionArchiver) ArchiveBoards(ctx context.Context, boardURLs []string) (models.RunSummary, error) {
	logger := config.GetLogger().With().Str("run_id", a.runID).Logger()
	summary := models.RunSummary{RunID: a.runID}

	for _, raw := range boardURLs {
		board, err := ParseBoardURL(raw)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping input line")
			continue
		}

		channel, err := a.archiveBoard(ctx, board)
		summary.Channels = append(summary.Channels, channel)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			logger.Error().
				Err(err).
				Str("channel_code", board.ChannelCode).
				Str("board_id", board.BoardID).
				Msg("Failed to archive board")
			a.reporter.Report(err, map[string]string{"run_id": a.runID, "board": raw})
		}
	}

	return summary, nil
}

func (a *DefaultCaptionArchiver) archiveBoard(ctx context.Context, board models.ChannelBoard) (models.ChannelSummary, error) {
	logger := config.GetLogger().With().Str("run_id", a.runID).Logger()

	channel, err := a.client.GetChannel(ctx, board.ChannelCode)
	if err != nil {
		return models.ChannelSummary{Channel: board.ChannelCode}, err
	}
	logger.Info().Str("channel", channel.Name).Str("board_id", board.BoardID).Msg("Downloading subs for channel")

	// Stop the producer if we return before the board is exhausted
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	summary := models.ChannelSummary{Channel: channel.Name}
	for result := range a.client.StreamBoardPosts(ctx, board) {
		if result.Err != nil {
			return summary, result.Err
		}
		if !result.Value.HasOfficialVideo() {
			continue
		}
		a.archiveVideo(ctx, channel.Name, *result.Value.OfficialVideo, &summary)
		if err := ctx.Err(); err != nil {
			return summary, err
		}
	}
	// The stream closes without an error when cancelled mid-page
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	logger.Info().
		Str("channel", channel.Name).
		Int("captions_found", summary.CaptionsFound).
		Int("captions_written", summary.CaptionsWritten).
		Msgf("%d captions downloaded from %s", summary.CaptionsWritten, channel.Name)
	return summary, nil
}

// ArchiveVideos scrapes each video page for its metadata, then archives it
// like a board video. Videos are grouped per channel in the summary.
func (a *DefaultCaptionArchiver) ArchiveVideos(ctx context.Context, videoURLs []string) (models.RunSummary, error) {
	logger := config.GetLogger().With().Str("run_id", a.runID).Logger()
	summary := models.RunSummary{RunID: a.runID}
	byChannel := make(map[string]int)

	channelSummary := func(name string) *models.ChannelSummary {
		i, ok := byChannel[name]
		if !ok {
			i = len(summary.Channels)
			byChannel[name] = i
			summary.Channels = append(summary.Channels, models.ChannelSummary{Channel: name})
		}
		return &summary.Channels[i]
	}

	for _, raw := range videoURLs {
		seq, err := ParseVideoURL(raw)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping input URL")
			continue
		}

		video, err := retry.Do(ctx, a.opts.Retry, func(ctx context.Context) (models.OfficialVideo, error) {
			return a.client.GetVideoPage(ctx, raw)
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			a.skip(err, raw, channelSummary(""))
			continue
		}
		video.VideoSeq = seq

		a.archiveVideo(ctx, video.ChannelName, video, channelSummary(video.ChannelName))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, ctxErr
		}
	}

	return summary, nil
}

// archiveVideo fetches play info with retries, then writes the captions and
// optionally the video. Outcomes are recorded in summary; nothing aborts the run.
func (a *DefaultCaptionArchiver) archiveVideo(ctx context.Context, channelName string, video models.OfficialVideo, summary *models.ChannelSummary) {
	logger := config.GetLogger().With().Str("run_id", a.runID).Logger()
	videoURL := a.videoURL(video.VideoSeq)

	if found, _ := a.seen.ContainsOrAdd(video.VideoSeq, struct{}{}); found {
		logger.Debug().Str("video", videoURL).Msg("Video already processed in this run")
		return
	}

	info, err := retry.Do(ctx, a.opts.Retry, func(ctx context.Context) (models.PlayInfo, error) {
		return a.client.GetPlayInfo(ctx, video.VideoSeq)
	})
	if err != nil {
		// Let a later board try again
		a.seen.Remove(video.VideoSeq)
		if ctx.Err() != nil {
			return
		}
		a.skip(err, videoURL, summary)
		return
	}

	summary.Videos++
	summary.CaptionsFound += len(info.Captions)
	logger.Info().
		Str("video", videoURL).
		Int("captions", len(info.Captions)).
		Msgf("%s has %d caption%s", videoURL, len(info.Captions), plural(len(info.Captions)))

	base := BaseFilename(a.opts.OutputDir, channelName, video)
	written, err := a.writeCaptions(ctx, base, info.Captions)
	summary.CaptionsWritten += written
	if err == nil && a.opts.DownloadVideo {
		var ok bool
		ok, err = a.writeVideo(ctx, base, info)
		if ok {
			summary.VideosWritten++
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		summary.Failed++
		metrics.VideosProcessedTotal.WithLabelValues("failed").Inc()
		logger.Error().Err(err).Str("video", videoURL).Msg("Failed to write files for video")
		a.reporter.Report(err, map[string]string{"run_id": a.runID, "video": videoURL})
		return
	}

	metrics.VideosProcessedTotal.WithLabelValues("success").Inc()
}

func (a *DefaultCaptionArchiver) skip(err error, videoURL string, summary *models.ChannelSummary) {
	logger := config.GetLogger().With().Str("run_id", a.runID).Logger()
	logger.Warn().Err(err).Str("video", videoURL).Msgf("Could not download subtitles for %s", videoURL)
	summary.Skipped++
	metrics.VideosProcessedTotal.WithLabelValues("skipped").Inc()
	a.reporter.Report(err, map[string]string{"run_id": a.runID, "video": videoURL})
}

// writeCaptions names and downloads every caption of a video. The parent
// directory is created only when the video has captions.
func (a *DefaultCaptionArchiver) writeCaptions(ctx context.Context, base string, records []models.CaptionRecord) (int, error) {
	named, err := captions.NameCaptions(base, records, a.opts.DupesOnly)
	if err != nil {
		return 0, fmt.Errorf("name captions: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	written := 0
	for _, file := range named {
		content, err := a.client.DownloadCaption(ctx, file.SourceURL)
		if err != nil {
			metrics.CaptionDownloadsTotal.WithLabelValues("error").Inc()
			return written, err
		}
		if err := os.WriteFile(file.Filename, content, 0o644); err != nil {
			metrics.CaptionDownloadsTotal.WithLabelValues("error").Inc()
			return written, fmt.Errorf("write caption: %w", err)
		}
		metrics.CaptionDownloadsTotal.WithLabelValues("success").Inc()
		written++
	}
	return written, nil
}

// writeVideo downloads the best video source next to the captions. The file
// is written under a ".part" name and renamed once complete.
func (a *DefaultCaptionArchiver) writeVideo(ctx context.Context, base string, info models.PlayInfo) (bool, error) {
	logger := config.GetLogger().With().Str("run_id", a.runID).Logger()

	best, ok := info.BestVideo()
	if !ok {
		logger.Warn().Str("file", base).Msg("No video source available")
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}

	target := base + ".mp4"
	partial := target + ".part"
	f, err := os.Create(partial)
	if err != nil {
		return false, fmt.Errorf("create video file: %w", err)
	}

	n, err := a.client.DownloadVideo(ctx, best.Source, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return false, errors.Join(err, os.Remove(partial))
	}
	if err := os.Rename(partial, target); err != nil {
		return false, fmt.Errorf("finalize video file: %w", err)
	}

	logger.Info().Str("file", target).Int("height", best.Height).Int64("bytes", n).Msg("Downloaded video")
	return true, nil
}

func (a *DefaultCaptionArchiver) videoURL(seq string) string {
	if a.opts.VideoBaseURL == "" {
		return seq
	}
	return strings.TrimRight(a.opts.VideoBaseURL, "/") + "/" + seq
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// RunID identifies this archiver's run in logs and reports.
func (a *DefaultCaptionArchiver) RunID() string {
	return a.runID
}
