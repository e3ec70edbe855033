package main

import (
	"fmt"
	"os"

	"trading-dashboard/internal/config"
	"trading-dashboard/internal/logging"
	"trading-dashboard/internal/series"
	"trading-dashboard/internal/services/marketapi"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logging.Setup(cfg.LogLevel, cfg.IsProduction(), logFile)

	client := marketapi.NewClient(cfg.APIURL)
	m := newModel(client, series.NewGenerator(), series.DefaultPeriod)
	p := tea.NewProgram(m, tea.WithAltScreen())

	c := cron.New()
	if _, err := c.AddFunc(cfg.RefreshCron, func() { p.Send(refreshMsg{}) }); err != nil {
		fmt.Fprintf(os.Stderr, "invalid REFRESH_CRON %q: %v\n", cfg.RefreshCron, err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	log.Info().Str("api", cfg.APIURL).Str("refresh", cfg.RefreshCron).Msg("dashboard starting")
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("dashboard exited with error")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
