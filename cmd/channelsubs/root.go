package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Belphemur/ChannelSubs/internal/client"
	"github.com/Belphemur/ChannelSubs/internal/config"
	"github.com/Belphemur/ChannelSubs/internal/metrics"
	"github.com/Belphemur/ChannelSubs/internal/models"
	"github.com/Belphemur/ChannelSubs/internal/reporting"
	"github.com/Belphemur/ChannelSubs/internal/services"
)

// reportFlushTimeout bounds how long pending error reports may delay exit.
const reportFlushTimeout = 2 * time.Second

type archiveFunc func(ctx context.Context, archiver *services.DefaultCaptionArchiver) (models.RunSummary, error)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "channelsubs",
		Short:         "Download the captions of channel videos",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newBoardsCommand(&configFlag))
	rootCmd.AddCommand(newVideosCommand(&configFlag))
	return rootCmd
}

func newBoardsCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boards <file>",
		Short: "Archive the captions of every official video posted on channel boards",
		Long: "Reads channel board URLs from <file>, one per line (\"-\" reads standard input),\n" +
			"and downloads the captions of every official video posted on them.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			boardURLs, err := readBoardFile(cmd, args[0])
			if err != nil {
				return err
			}
			return runArchive(cmd, *configFile, func(ctx context.Context, a *services.DefaultCaptionArchiver) (models.RunSummary, error) {
				return a.ArchiveBoards(ctx, boardURLs)
			})
		},
	}
	addArchiveFlags(cmd.Flags())
	return cmd
}

func newVideosCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videos <url>...",
		Short: "Archive the captions of individual video pages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd, *configFile, func(ctx context.Context, a *services.DefaultCaptionArchiver) (models.RunSummary, error) {
				return a.ArchiveVideos(ctx, args)
			})
		},
	}
	addArchiveFlags(cmd.Flags())
	return cmd
}

func addArchiveFlags(flags *pflag.FlagSet) {
	flags.BoolP("dupes-only", "d", false, "Only download captions sharing their language and type with another caption")
	flags.BoolP("video", "v", false, "Also download the highest resolution video")
	flags.IntP("retry-amount", "r", config.DefaultRetryAmount, "Attempts made to fetch the play info of a video")
	flags.StringP("log-level", "l", "warning", "Log level (debug, info, warning, error)")
	flags.StringP("output", "o", ".", "Directory receiving one sub-directory per channel")
}

// validateArchiveFlags rejects flag values the configuration layer would silently replace.
func validateArchiveFlags(flags *pflag.FlagSet) error {
	if !flags.Changed("retry-amount") {
		return nil
	}
	amount, err := flags.GetInt("retry-amount")
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("--retry-amount must be a positive number, got %d", amount)
	}
	return nil
}

func readBoardFile(cmd *cobra.Command, path string) ([]string, error) {
	if path == "-" {
		return services.ReadLines(cmd.InOrStdin())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board list: %w", err)
	}
	defer f.Close()
	return services.ReadLines(f)
}

// runArchive wires configuration, reporting and metrics around a single run
// and prints its summary, even when the run was interrupted.
func runArchive(cmd *cobra.Command, configFile string, run archiveFunc) error {
	if err := validateArchiveFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Init(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger := config.GetLogger()

	reporter, err := reporting.New(cfg, version)
	if err != nil {
		logger.Warn().Err(err).Msg("Error reporting disabled")
		reporter = reporting.Nop{}
	}
	defer reporter.Flush(reportFlushTimeout)

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Metrics.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archiver, err := services.NewCaptionArchiver(client.NewClient(cfg), reporter, services.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	logger.Info().
		Str("run_id", archiver.RunID()).
		Str("output_dir", cfg.OutputDir).
		Bool("dupes_only", cfg.DupesOnly).
		Bool("download_video", cfg.DownloadVideo).
		Int("retry_amount", cfg.Retry.Amount).
		Msg("Starting caption archive run")

	summary, err := run(ctx, archiver)
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	if err != nil {
		return err
	}

	logger.Info().Str("run_id", summary.RunID).Int("captions_written", summary.TotalCaptionsWritten()).Msg("Run finished")
	return nil
}
