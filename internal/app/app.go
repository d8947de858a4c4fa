package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arisanku/arisan-admin/internal/api"
	"github.com/arisanku/arisan-admin/internal/config"
	"github.com/arisanku/arisan-admin/internal/logging"
	"github.com/arisanku/arisan-admin/internal/prefs"
	"github.com/arisanku/arisan-admin/internal/session"
	"github.com/arisanku/arisan-admin/internal/ui"
)

// Options configure the console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/arisan-admin/prefs.toml
	LogLevel   string // debug, info, warn or error; empty means info
	ThemeName  string // overrides the saved theme
}

// Runtime holds the wired dependencies shared by the TUI and the
// subcommands.
type Runtime struct {
	Config   config.Config
	Logger   *slog.Logger
	Session  *session.Session
	Client   *api.Client
	Services *api.Services

	logFile io.Closer
}

// Open loads the configuration, opens the log file and session store and
// builds the API client. Callers must Close the runtime.
func Open(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.Open(cfg.LogPath(), level)
	if err != nil {
		return nil, err
	}

	sess := session.New(session.NewFileKV(cfg.SessionPath))

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Tokens:  sess,
		Logger:  logger,
	})
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	logger.Info("runtime ready", "api_url", client.BaseURL(), "session", cfg.SessionPath)
	return &Runtime{
		Config:   cfg,
		Logger:   logger,
		Session:  sess,
		Client:   client,
		Services: api.NewServices(client),
		logFile:  logFile,
	}, nil
}

// Close releases the log file.
func (r *Runtime) Close() error {
	if r == nil || r.logFile == nil {
		return nil
	}
	return r.logFile.Close()
}

// Run boots the console TUI until the operator quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	rt.Logger.Info("console started", "authenticated", rt.Session.Authenticated())
	err = ui.Run(ui.Options{
		Context:   ctx,
		Services:  rt.Services,
		Session:   rt.Session,
		Config:    rt.Config,
		Logger:    rt.Logger,
		ThemeName: opts.ThemeName,
		PrefsPath: prefsPath,
		Prefs:     userPrefs,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	rt.Logger.Info("console stopped", "error", err)
	return err
}
