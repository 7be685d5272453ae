// researchctl is a command line client for the Research Assistant platform.
// It signs in, manages projects and documents, and drives the analysis
// features against a real or mock backend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ViFerX/research-assistant/internal/api"
	"github.com/ViFerX/research-assistant/internal/config"
	"github.com/ViFerX/research-assistant/internal/jobs"
	"github.com/ViFerX/research-assistant/internal/logger"
	"github.com/ViFerX/research-assistant/internal/resilience"
	"github.com/ViFerX/research-assistant/internal/session"
	"github.com/ViFerX/research-assistant/internal/telemetry"
	"github.com/ViFerX/research-assistant/internal/transport"

	ristrettocache "github.com/ViFerX/research-assistant/internal/adapter/ristretto"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	slog.SetDefault(logger.New(cfg.Logging))

	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printHelp()
		return nil
	}

	if args[0] == "mock" {
		return runMock(cfg, args[1:])
	}

	app, cleanup, err := newApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	switch args[0] {
	case "register":
		return app.runRegister(args[1:])
	case "login":
		return app.runLogin(args[1:])
	case "logout":
		return app.runLogout()
	case "me":
		return app.runMe()
	case "projects":
		return app.runProjects(args[1:])
	case "upload":
		return app.runUpload(args[1:])
	case "features":
		return app.runFeatures()
	case "invoke":
		return app.runInvoke(args[1:])
	case "job":
		return app.runJob(args[1:])
	default:
		printHelp()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Usage: researchctl <command> [options]

Commands:
  register    Create a new account
  login       Sign in and store the session
  logout      Discard the stored session
  me          Show the signed-in profile
  projects    Manage research projects (list, create, delete)
  upload      Upload documents into a project
  features    List the available analysis features
  invoke      Run an analysis feature
  job         Show or await a background job
  mock        Run the local mock backend
  help        Show this help message

Examples:
  researchctl register --email ada@example.org --name "Ada"
  researchctl projects create --title "Attention" --domain NLP --aim "faster MT"
  researchctl upload --project 1 paper.pdf appendix.pdf
  researchctl invoke survey --project 1 topic="sparse attention" n_results=5
  researchctl job 3f1a... --wait
`)
}

// app bundles the wired client stack behind each subcommand.
type app struct {
	cfg      *config.Config
	sessions *session.Store
	client   *api.Client
	poller   *jobs.Poller
}

func newApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	sessions := session.NewStore()
	restoreSession(sessions)
	sessions.OnExpired(func() {
		clearSessionFile()
		fmt.Fprintln(os.Stderr, "Session expired; please log in again.")
	})

	opts := []transport.Option{
		transport.WithTimeout(cfg.Backend.Timeout),
		transport.WithBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout, transport.Counts)),
	}

	shutdown := telemetry.ShutdownFunc(nil)
	if cfg.Telemetry.Enabled {
		var err error
		shutdown, err = telemetry.Init(ctx, cfg.Telemetry, cfg.Logging.Service)
		if err != nil {
			return nil, nil, fmt.Errorf("telemetry: %w", err)
		}
		opts = append(opts, transport.WithTelemetry())
	}

	client := api.NewClient(transport.New(cfg.Backend.BaseURL, sessions, opts...))

	cache, err := ristrettocache.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return nil, nil, fmt.Errorf("cache: %w", err)
	}

	cleanup := func() {
		cache.Close()
		if shutdown != nil {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("telemetry shutdown", "error", err)
			}
		}
	}

	return &app{
		cfg:      cfg,
		sessions: sessions,
		client:   client,
		poller:   jobs.NewPoller(client, cache, cfg.Cache.JobTTL),
	}, cleanup, nil
}
