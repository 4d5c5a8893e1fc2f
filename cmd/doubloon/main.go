package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/doubloon-app/doubloon/calahan"
	"github.com/doubloon-app/doubloon/internal/appui"
	"github.com/doubloon-app/doubloon/internal/config"
	"github.com/doubloon-app/doubloon/internal/history"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "doubloon:", err)
		os.Exit(1)
	}
}

// envLogFile redirects log output away from the terminal, which the UI
// owns while running.
const envLogFile = "DOUBLOON_LOG_FILE"

func run() error {
	if path := os.Getenv(envLogFile); path != "" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
		log.Logger = log.Output(logFile)
	}

	configPath := config.Path()
	cfg, err := config.Load(configPath, appui.ColumnKeys())
	if err != nil {
		return err
	}

	if err := calahan.SetLogLevelFromString(cfg.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.LogLevel).Msg("unknown log level, keeping default")
	}

	yfinance := calahan.New(calahan.Options{})
	defer yfinance.Close()

	// The journal is optional; a bad DSN downgrades to running without it.
	var recorder appui.Recorder
	if cfg.HistoryDSN != "" {
		journal, err := history.Open(cfg.HistoryDSN)
		if err != nil {
			log.Warn().Err(err).Msg("quote history journal unavailable, continuing without it")
		} else {
			defer journal.Close()
			recorder = journal
		}
	}

	model := appui.New(cfg, yfinance, recorder)
	program := tea.NewProgram(model, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running user interface: %w", err)
	}

	// Persist watchlist edits and sort order made during the session.
	if m, ok := final.(appui.Model); ok {
		m.SyncConfig()
	}
	if err := cfg.Save(configPath); err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("saving configuration failed")
	}

	return nil
}
