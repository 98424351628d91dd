package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/abelbrown/collidoscope/internal/api"
	"github.com/abelbrown/collidoscope/internal/cache"
	"github.com/abelbrown/collidoscope/internal/config"
	"github.com/abelbrown/collidoscope/internal/logging"
	"github.com/abelbrown/collidoscope/internal/state"
	"github.com/abelbrown/collidoscope/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	// Event cache: best effort. A broken cache never blocks startup.
	var evCache *cache.Cache
	cachePath := cfg.CachePath
	if cachePath == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			dataDir := filepath.Join(homeDir, ".collidoscope")
			if err := os.MkdirAll(dataDir, 0755); err == nil {
				cachePath = filepath.Join(dataDir, "events.db")
			}
		}
	}
	if cachePath != "" {
		evCache, err = cache.Open(cachePath)
		if err != nil {
			logging.Warn("event cache unavailable", "path", cachePath, "error", err)
			evCache = nil
		} else {
			defer evCache.Close()
		}
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout)
	actions := state.Actions{
		Client: client,
		// One generation burst per two seconds keeps a held key from
		// flooding the collision service.
		GenerateLimiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}

	logging.Info("connecting", "gateway", cfg.APIBaseURL)

	program := tea.NewProgram(ui.New(actions, evCache), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logging.Error("program failed", "error", err)
		log.Printf("Error running program: %v", err)
	}
}
