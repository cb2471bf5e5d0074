package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/dori/promanager/internal/agenda"
	"github.com/dori/promanager/internal/app"
	"github.com/dori/promanager/internal/config"
	"github.com/dori/promanager/internal/rpc"
	"github.com/dori/promanager/internal/ui"
	"github.com/dori/promanager/internal/ui/theme"
	"github.com/dori/promanager/internal/ui/views"
)

var (
	version = "0.1.0"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	configPath string
	screen     string
	theme      string
	remote     string
}

func parseOptions(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fs := flag.NewFlagSet("promanager", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", config.DefaultConfigPath(), "Config file (YAML)")
	fs.StringVar(&o.screen, "screen", "dashboard", "Starting screen (dashboard, projects, tasks)")
	fs.StringVar(&o.theme, "theme", "", "Theme name (nord, dracula)")
	fs.StringVar(&o.remote, "remote", "", "Server URL to use instead of the local database")
	fs.Usage = func() { printHelp(stderr) }

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	return o, fs.Args(), nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, rest, err := parseOptions(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	var cmd string
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case "version":
		fmt.Printf("promanager v%s\n", version)
		return 0
	case "help":
		printHelp(os.Stdout)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx := context.Background()
	switch cmd {
	case "":
		err = runTUI(ctx, cfg, opts.screen)
	case "add":
		err = withCLI(ctx, cfg, func(a *app.App) error {
			return addTask(ctx, a.Gateway, rest, agenda.SystemClock(), os.Stdout)
		})
	case "today", "upcoming", "stats":
		err = withCLI(ctx, cfg, func(a *app.App) error {
			return writeReport(ctx, a.Gateway, cmd, agenda.SystemClock(), os.Stdout)
		})
	case "serve":
		err = runServe(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		printHelp(os.Stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.theme != "" {
		cfg.Theme = opts.theme
	}
	if opts.remote != "" {
		cfg.RemoteURL = opts.remote
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func printHelp(w io.Writer) {
	help := `promanager - projects and tasks in the terminal

Usage:
  promanager [flags]                Start the TUI
  promanager [flags] add <task>     Quick add a task
  promanager [flags] today          List tasks due today
  promanager [flags] upcoming       List upcoming tasks
  promanager [flags] stats          Show task statistics
  promanager [flags] serve          Serve the local database over HTTP
  promanager version                Show version
  promanager help                   Show this help

Quick Add Syntax:
  promanager add "Buy groceries"
  promanager add "Review PR #work !high due:tomorrow"

  Project:   #name         (matched case-insensitively)
  Priority:  !low !medium !high (or !l !m !h !!)
  Due date:  due:today due:tomorrow due:friday due:2025-01-15

Flags:
  --config <path>   Config file (default ~/.config/promanager/config.yaml)
  --screen <name>   Starting screen (dashboard, projects, tasks)
  --theme <name>    Theme (nord, dracula)
  --remote <url>    Talk to a promanager server instead of the local database

Keybindings:
  Screens:      1 2 3         Dashboard, projects, tasks
                ctrl+t        Cycle theme
                ?             Help
                q             Quit

  Lists:        ↑/↓ or j/k    Move cursor
                g/G           Go to top/bottom
                a             Add
                enter         Edit task / open project
                tab           Toggle done
                d             Delete (with confirm)
                p / s         Cycle priority / status`

	fmt.Fprintln(w, help)
}

// withCLI opens the application for a one-shot command
func withCLI(ctx context.Context, cfg config.Config, fn func(*app.App) error) error {
	a, err := app.New(ctx, cfg, app.ModeCLI)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runTUI(ctx context.Context, cfg config.Config, screenName string) error {
	th, err := theme.ByName(cfg.Theme)
	if err != nil {
		return err
	}
	screen, ok := ui.ParseScreen(screenName)
	if !ok {
		return fmt.Errorf("unknown screen %q", screenName)
	}

	application, err := app.New(ctx, cfg, app.ModeTUI)
	if err != nil {
		return err
	}
	defer application.Close()

	deps := views.Deps{
		API:      application.Gateway,
		Clock:    agenda.SystemClock,
		Policy:   application.Policy,
		Notifier: application.Notifier,
		Log:      application.Log,
	}

	p := tea.NewProgram(
		ui.NewRootModel(deps, th, screen),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}

// runServe exposes the local database to remote UIs until interrupted
func runServe(ctx context.Context, cfg config.Config) error {
	if cfg.IsRemote() {
		return errors.New("serve needs a local database; unset remote_url")
	}

	application, err := app.New(ctx, cfg, app.ModeServe)
	if err != nil {
		return err
	}
	defer application.Close()
	log := application.Log

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           rpc.NewServer(application.Gateway, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Msg("rpc server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down rpc server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
