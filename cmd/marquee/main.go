package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/kgrange/marquee/internal/api"
	"github.com/kgrange/marquee/internal/config"
	"github.com/kgrange/marquee/internal/log"
	"github.com/kgrange/marquee/internal/poster"
	"github.com/kgrange/marquee/internal/service"
	"github.com/kgrange/marquee/internal/session"
	"github.com/kgrange/marquee/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("marquee needs an interactive terminal")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.Setup(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.Null()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version, "server", cfg.Server.URL)

	// Open the session store; fall back to a memory-only session when the
	// data directory is unavailable.
	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		logger.Warn("data directory unavailable, session will not persist", "error", err)
		cfg.Data.Dir = ""
	}
	sessionPath := ""
	if cfg.Data.Dir != "" {
		sessionPath = cfg.SessionPath()
	}
	store, err := session.Open(sessionPath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	// Create clients and services
	client := api.NewClient(cfg.Server.URL, store, logger)
	tmdb := poster.NewTMDBClient(cfg.TMDB.APIKey)

	model := tui.NewModel(tui.Services{
		Accounts:  service.NewAccountService(client, store, logger),
		Movies:    service.NewMovieService(client, logger),
		Suggester: service.NewSuggester(client, logger),
		Resolver:  poster.NewResolver(tmdb, logger),
		TMDB:      tmdb,
		KeySource: client,
		PersistKey: func(key string) error {
			cfg.TMDB.APIKey = key
			return config.Save(cfg)
		},
	}, logger)

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
