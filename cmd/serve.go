package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/killallgit/podfeed/api"
	"github.com/killallgit/podfeed/api/types"
	"github.com/killallgit/podfeed/internal/database"
	"github.com/killallgit/podfeed/internal/services/feeds"
	"github.com/killallgit/podfeed/internal/services/podcasts"
	"github.com/killallgit/podfeed/pkg/config"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the podfeed HTTP API with the configured settings.

The server loads feeds on request and, unless --no-library is given,
stores imported podcasts in the configured database.

Example:
  podfeed serve
  podfeed serve --port 9090
  podfeed serve --host 127.0.0.1 --no-library`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
	serveCmd.Flags().Bool("no-library", false, "serve feeds only, without the podcast library database")
}

// newFeedService builds the feed loader from the feed and cache settings
func newFeedService(cfg *config.Config) *feeds.Service {
	return feeds.NewService(
		feeds.NewHTTPTransport(feeds.WithMaxFeedSize(cfg.Feed.MaxSize)),
		feeds.NewOSFileCache(),
		nil,
		feeds.WithDefaultTimeout(cfg.Feed.Timeout),
		feeds.WithDefaultCacheDir(cfg.Cache.Dir),
	)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	host, _ := cmd.Flags().GetString("host")
	if host == "" {
		host = cfg.Server.Host
	}
	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = cfg.Server.Port
	}
	address := fmt.Sprintf("%s:%d", host, port)

	feedService := newFeedService(cfg)
	deps := &types.Dependencies{Config: cfg, FeedLoader: feedService}

	if noLibrary, _ := cmd.Flags().GetBool("no-library"); !noLibrary {
		db, err := database.InitializeFromConfig()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		deps.DB = db
		deps.PodcastService = podcasts.NewService(podcasts.NewRepository(db.DB), feedService)
	}

	server := api.NewServer(address, cfg.Server)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Printf("[INFO] podfeed listening on %s", address)

	select {
	case <-ctx.Done():
		log.Printf("[INFO] shutting down server")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Printf("[INFO] server gracefully stopped")
	return nil
}
