package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"usergrip/internal/api"
	"usergrip/internal/config"
	"usergrip/internal/domain"
	"usergrip/internal/eventbus"
	"usergrip/internal/logic"
	"usergrip/internal/ui/coordinator"
)

// Options are the flags shared by every command
type Options struct {
	ConfigPath   string
	Demo         bool
	DemoUsers    int
	Debug        bool
	PageSize     int
	PollInterval time.Duration
	LogFile      string

	// newAPI replaces the backend; used by tests
	newAPI func(cfg *config.Config) (logic.UserAPI, error)
}

// app holds what a command needs once flags and config are resolved
type app struct {
	cfg     *config.Config
	bus     eventbus.EventBus
	api     logic.UserAPI
	coord   *coordinator.Coordinator
	logFile io.Closer
}

// loadConfig reads the config file and env, then applies the flags that were set
func loadConfig(cmd *cobra.Command, opts *Options) (*config.Config, error) {
	svc := config.NewConfigService()
	if opts.ConfigPath != "" {
		svc = config.NewConfigServiceAt(opts.ConfigPath)
	}
	cfg, err := svc.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", svc.Path(), err)
	}

	flags := cmd.Flags()
	if flags.Changed("page-size") {
		if !domain.ValidPageSize(opts.PageSize) {
			return nil, fmt.Errorf("invalid page size %d: must be one of %v", opts.PageSize, domain.PageSizes)
		}
		cfg.UI.PageSize = opts.PageSize
	}
	if flags.Changed("poll-interval") {
		if opts.PollInterval <= 0 {
			return nil, fmt.Errorf("invalid poll interval %s", opts.PollInterval)
		}
		cfg.UI.PollInterval = config.Duration(opts.PollInterval)
	}
	if flags.Changed("log-file") {
		cfg.UI.LogFile = opts.LogFile
	}
	if opts.Debug {
		cfg.Server.Debug = true
	}
	return cfg, nil
}

// setupLogging sends the standard logger to path; an empty path discards logs
func setupLogging(path string) io.Closer {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return nil
	}
	log.SetOutput(logFile)
	return logFile
}

func newBackend(cfg *config.Config, opts *Options) (logic.UserAPI, error) {
	if opts.newAPI != nil {
		return opts.newAPI(cfg)
	}
	if opts.Demo {
		mem := logic.NewMemoryUserAPI(cfg.Server.Username)
		mem.SeedDemo(opts.DemoUsers)
		log.Printf("Demo mode: %d generated users", opts.DemoUsers)
		return mem, nil
	}
	if cfg.Server.BaseURL == "" {
		return nil, fmt.Errorf("no server configured: set server.base_url or %sBASE_URL", config.EnvPrefix)
	}
	return api.New(api.Options{
		BaseURL:  cfg.Server.BaseURL,
		Username: cfg.Server.Username,
		Password: cfg.Server.Password,
		Token:    cfg.Server.Token,
		Timeout:  cfg.Server.Timeout.Std(),
		Debug:    cfg.Server.Debug,
	}), nil
}

// newApp resolves config, logging and the backend and builds the coordinator
func newApp(cmd *cobra.Command, opts *Options) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	logFile := setupLogging(cfg.UI.LogFile)

	backend, err := newBackend(cfg, opts)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}

	bus := eventbus.New()
	coord := coordinator.New(coordinator.Options{
		API:          backend,
		Bus:          bus,
		PageSize:     cfg.UI.PageSize,
		PollInterval: cfg.UI.PollInterval.Std(),
	})

	return &app{
		cfg:     cfg,
		bus:     bus,
		api:     backend,
		coord:   coord,
		logFile: logFile,
	}, nil
}

// Close stops the poller and the bus and closes the log file
func (a *app) Close() {
	a.coord.Close()
	a.bus.Close()
	if a.logFile != nil {
		a.logFile.Close()
	}
}
