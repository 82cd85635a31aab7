package main

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/adventure-client/internal/config"
	"github.com/jwebster45206/adventure-client/internal/gameapi"
	"github.com/jwebster45206/adventure-client/internal/logger"
	"github.com/jwebster45206/adventure-client/pkg/viewstate"
)

func main() {
	cfg := config.Load()

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.LogFile, err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()

	log := logger.Setup(cfg, logFile)
	log.Info("Starting adventure console",
		"api_base_url", cfg.APIBaseURL,
		"request_timeout", cfg.RequestTimeout,
		"stale_guard", cfg.StaleGuard)

	client := gameapi.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, log)
	controller := viewstate.New(client,
		viewstate.WithLogger(log),
		viewstate.WithStaleGuard(cfg.StaleGuard))

	p := tea.NewProgram(NewConsoleUI(cfg, controller, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error("Console exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
