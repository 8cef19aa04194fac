package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/omnimedia/omnihub/internal/catalog"
	"github.com/omnimedia/omnihub/internal/config"
	"github.com/omnimedia/omnihub/internal/domain"
	"github.com/omnimedia/omnihub/internal/log"
	"github.com/omnimedia/omnihub/internal/lyrics"
	"github.com/omnimedia/omnihub/internal/player"
	"github.com/omnimedia/omnihub/internal/playlist"
	"github.com/omnimedia/omnihub/internal/queue"
	"github.com/omnimedia/omnihub/internal/session"
	"github.com/omnimedia/omnihub/internal/store"
	"github.com/omnimedia/omnihub/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("omnihub %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("omnihub requires an interactive terminal")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting omnihub", "version", Version)

	// Open the local store
	st, err := store.Open(cfg.Data.Dir, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	// Create services
	catalogSvc := catalog.NewService(st, logger)
	sessionSvc := session.NewService(st, logger)
	playlistSvc := playlist.NewService(st, logger)

	// Seed the catalog on first run
	if !st.Seeded() {
		report := catalogSvc.ImportSeed(context.Background(), cfg.Seed)
		for key, count := range report.Loaded {
			logger.Info("seeded collection", "collection", key, "records", count)
		}
		for key, err := range report.Failed {
			logger.Warn("seed collection unavailable", "collection", key, "error", err)
		}
	}

	settings := sessionSvc.Settings()

	// Audio pipeline: engine feeds the visualizer through a sample tap
	tap := player.NewTap(player.VizWindow)
	engine := player.NewEngine(tap, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)

	viz := player.NewVisualizer(tap)
	viz.SetAccent(settings.Accent)

	q := queue.New(st, logger)
	if q.Len() == 0 {
		q.Replace(startupTracks(playlistSvc, catalogSvc), 0)
	}

	lyricLoader := lyrics.NewLoader(logger)
	transport := player.NewTransport(engine, q, st, lyricLoader, logger)
	transport.SetDefaultVolume(settings.DefaultVolume)

	// Run the TUI
	app := tui.NewApp(transport, q, viz, catalogSvc, engine.Events(), settings.Accent, logger)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	transport.Stop()
	logger.Info("shutting down")
	return nil
}

// startupTracks picks what fills a fresh queue: the first saved playlist,
// falling back to the seeded track catalog.
func startupTracks(playlists *playlist.Service, cat *catalog.Service) []domain.Track {
	for _, pl := range playlists.All() {
		if len(pl.Tracks) > 0 {
			return pl.Tracks
		}
	}
	return cat.Tracks()
}
