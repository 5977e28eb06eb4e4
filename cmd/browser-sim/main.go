// Command browser-sim drives the marketing adapter through a scripted
// browsing session against a live Engage endpoint (usually the twin).
// It stands in for the browser: preferences persist in a local SQLite
// file, so repeated runs exercise the second-run and latch behavior.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/kiroskirin/firefox-ios/internal/engage"
	"github.com/kiroskirin/firefox-ios/internal/prefs"
	"github.com/kiroskirin/firefox-ios/marketing"
)

// Config holds the simulated device and session.
type Config struct {
	// LogLevel is the log level (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	// LogFormat is the log format (json, text)
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Endpoint is the Engage API base URL
	Endpoint string `env:"SIM_ENDPOINT" envDefault:"http://localhost:8380"`

	// DataDir holds the simulated profile (preference database)
	DataDir string `env:"SIM_DATA_DIR" envDefault:"sim-profile"`

	// Locale is the simulated device locale
	Locale string `env:"SIM_LOCALE" envDefault:"en_US"`

	// Environment selects development or production credentials
	Environment string `env:"SIM_ENVIRONMENT" envDefault:"development"`

	// AppID and Key are the Engage app credentials
	AppID string `env:"SIM_APP_ID" envDefault:"app_9Zw1TQPkXhVr"`
	Key   string `env:"SIM_KEY" envDefault:"dev_c8GJkqLmN2xY"`

	// FocusInstalled simulates the Focus companion app being present
	FocusInstalled bool `env:"SIM_FOCUS_INSTALLED" envDefault:"false"`

	// SyncSignedIn simulates a signed-in Sync account
	SyncSignedIn bool `env:"SIM_SYNC_SIGNED_IN" envDefault:"false"`

	// AcceptPush decides how the scripted user answers the pre-push dialog
	AcceptPush bool `env:"SIM_ACCEPT_PUSH" envDefault:"true"`

	// ToggleUsageData additionally bounces the send-usage-data toggle
	// mid-session to demonstrate suppression and recovery
	ToggleUsageData bool `env:"SIM_TOGGLE_USAGE_DATA" envDefault:"false"`

	// FlushInterval is the client's batch flush interval; short so
	// events land at the twin while the session is still open
	FlushInterval time.Duration `env:"SIM_FLUSH_INTERVAL" envDefault:"2s"`

	// Linger is how long the session stays open after the script so
	// asynchronous actions and flushes can land
	Linger time.Duration `env:"SIM_LINGER" envDefault:"5s"`
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	logger.Info("starting browser sim",
		"endpoint", cfg.Endpoint,
		"data_dir", cfg.DataDir,
		"locale", cfg.Locale,
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data dir", "error", err)
		os.Exit(1)
	}

	store, err := prefs.Open(filepath.Join(cfg.DataDir, "prefs.db"), logger)
	if err != nil {
		logger.Error("failed to open preference store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client, err := engage.New(engage.Config{
		Endpoint:      cfg.Endpoint,
		FlushInterval: cfg.FlushInterval,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to create engage client", "error", err)
		os.Exit(1)
	}

	adapter, err := marketing.New(marketing.Config{
		Settings: marketing.Settings{
			Environment: marketing.Environment(cfg.Environment),
			AppID:       cfg.AppID,
			Key:         cfg.Key,
		},
		Locale: cfg.Locale,
		Prefs:  store,
		Probes: &simProbes{
			focusInstalled: cfg.FocusInstalled,
			syncSignedIn:   cfg.SyncSignedIn,
		},
		Push:    &simPush{log: logger},
		Dialogs: &simDialogs{log: logger, accept: cfg.AcceptPush},
		Client:  client,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to create marketing adapter", "error", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	adapter.Start()

	// A minimal browsing session: a search from the URL bar and a
	// bookmark save, then the onboarding is marked seen so the next run
	// counts as the second one.
	adapter.Track(marketing.EventOpenedNewTab, nil)
	adapter.Track(marketing.EventInteractedWithURLBar, nil)
	adapter.Track(marketing.EventPerformedSearch, map[string]string{"engine": "default"})
	adapter.Track(marketing.EventSavedBookmark, nil)
	store.SetBool(marketing.PrefKeyIntroSeen, true)

	if cfg.ToggleUsageData {
		// The opt-out discards anything still queued client-side, so
		// earlier events may never reach the twin. That is the point
		// of the demonstration.
		adapter.SetEnabled(false)
		adapter.Track(marketing.EventClearedPrivateData, nil)
		adapter.SetEnabled(true)
		adapter.Track(marketing.EventSharedWebPage, nil)
	}

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case <-time.After(cfg.Linger):
	}

	if err := adapter.Close(); err != nil {
		logger.Error("adapter close error", "error", err)
	}
	logger.Info("session finished")
}

// simProbes answers device probes from the sim configuration.
type simProbes struct {
	focusInstalled bool
	syncSignedIn   bool
}

func (p *simProbes) CanOpenURL(scheme string) bool {
	return scheme == "firefox-focus://" && p.focusInstalled
}

func (p *simProbes) IsDefaultMailHandler() bool { return false }
func (p *simProbes) IsSyncSignedIn() bool       { return p.syncSignedIn }
func (p *simProbes) IsPrivateMode() bool        { return false }

// simPush logs the push permission calls instead of talking to an OS.
type simPush struct {
	log *slog.Logger
}

func (p *simPush) RequestAuthorization() {
	p.log.Info("push: authorization prompt shown")
}

func (p *simPush) ReadyForSync() {
	p.log.Info("push: ready for sync")
}

// simDialogs renders campaign dialogs into the log and answers with the
// configured choice.
type simDialogs struct {
	log    *slog.Logger
	accept bool
}

func (d *simDialogs) Present(dialog marketing.Dialog, accept func(), cancel func()) {
	d.log.Info("dialog presented",
		"title", dialog.Title,
		"message", dialog.Message,
		"accept_text", dialog.AcceptText,
		"cancel_text", dialog.CancelText,
	)
	if d.accept {
		d.log.Info("dialog: user tapped accept")
		accept()
		return
	}
	d.log.Info("dialog: user tapped cancel")
	cancel()
}

// setupLogger creates a logger based on configuration.
func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
