package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/mediagrab/internal/api"
	"github.com/ytget/mediagrab/internal/config"
	"github.com/ytget/mediagrab/internal/download"
	"github.com/ytget/mediagrab/internal/platform"
)

// Server timeouts
const (
	ShutdownTimeout   = 5 * time.Second
	ReadHeaderTimeout = 10 * time.Second
)

var (
	serveHost         string
	servePort         int
	serveDownloadDir  string
	serveMaxParallel  int
	serveInstallYTDLP bool
	serveEnvFile      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", config.DefaultHost, "Listen host (overrides "+config.KeyHost+")")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Listen port (overrides "+config.KeyPort+")")
	serveCmd.Flags().StringVar(&serveDownloadDir, "download-dir", "", "Default download folder (overrides "+config.KeyDownloadDir+")")
	serveCmd.Flags().IntVar(&serveMaxParallel, "max-parallel", config.DefaultMaxParallel, "Concurrent downloads, 0 for no limit (overrides "+config.KeyMaxParallel+")")
	serveCmd.Flags().BoolVar(&serveInstallYTDLP, "install-ytdlp", false, "Download yt-dlp on startup if it is missing")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", config.DefaultEnvFile, "Optional dotenv file")
	rootCmd.AddCommand(serveCmd)
}

// applyFlags copies explicitly set flags over environment values
func applyFlags(cmd *cobra.Command, settings *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		settings.SetHost(serveHost)
	}
	if flags.Changed("port") {
		settings.SetPort(servePort)
	}
	if flags.Changed("download-dir") {
		settings.SetDownloadDirectory(serveDownloadDir)
	}
	if flags.Changed("max-parallel") {
		settings.SetMaxParallelDownloads(serveMaxParallel)
	}
}

// resolveFFmpegDir prefers an existing configured directory and falls back
// to platform discovery
func resolveFFmpegDir(settings *config.Settings) string {
	if dir := settings.GetFFmpegLocation(); dir != "" {
		return dir
	}
	return platform.DetectFFmpegDir()
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(serveEnvFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, settings)

	logger := newLogger(settings)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	downloadDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadDir); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	ffmpegDir := resolveFFmpegDir(settings)
	if ffmpegDir == "" {
		logger.Warn("ffmpeg not found, merging streams and mp3 conversion may fail")
	}

	ytdlp := download.NewYTDLP(logger)
	if serveInstallYTDLP {
		if err := ytdlp.Install(ctx); err != nil {
			return err
		}
	}

	store := download.NewStore()
	runner := download.NewRunner(logger, store, ytdlp, downloadDir, ffmpegDir)
	service := download.NewService(logger, store, runner, settings.GetMaxParallelDownloads())

	playlists := platform.NewPlaylistParser()
	playlists.SetTimeout(settings.GetProbeTimeout())

	server := api.NewServer(logger, service, ytdlp, playlists, api.Options{
		AllowedOrigins: settings.GetAllowedOrigins(),
		ProbeTimeout:   settings.GetProbeTimeout(),
	})

	httpServer := &http.Server{
		Addr:              settings.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server",
			"addr", httpServer.Addr,
			"download_dir", downloadDir,
			"max_parallel", settings.GetMaxParallelDownloads(),
			"ffmpeg", ffmpegDir,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	logger.Info("waiting for running downloads")
	service.Wait()
	logger.Info("stopped")
	return err
}
