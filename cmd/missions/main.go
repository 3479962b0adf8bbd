package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cdrpl/missions/client"
	"github.com/cdrpl/missions/internal/app"
)

var (
	// Global flags
	verbose     bool
	baseURL     string
	sessionPath string
	envFile     string

	logger *zap.Logger
)

var errNotLoggedIn = errors.New("not logged in, run `missions login` first")

var rootCmd = &cobra.Command{
	Use:   "missions",
	Short: "Keep track of your daily missions",
	Long: `missions talks to the daily missions server.

Log in once with "missions login"; the session is kept in a file until it
expires. Run "missions ui" for the interactive view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Server origin (default: $"+client.BaseURLEnv+" or "+client.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", client.DefaultEnvFile, "Optional .env file, use nil to skip")
}

// terminal is the Navigator and Alerter of the command line. Alerts are
// written to stderr and the last route is kept for the command to inspect.
type terminal struct {
	mu     sync.Mutex
	errOut io.Writer
	route  app.Route
	alerts []string
}

func (t *terminal) Navigate(route app.Route) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.route = route
}

func (t *terminal) Alert(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.alerts = append(t.alerts, msg)
	fmt.Fprintln(t.errOut, msg)
}

func (t *terminal) lastRoute() app.Route {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.route
}

// outcome turns what the controllers reported into the command's error.
func (t *terminal) outcome() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.route == app.RouteLogin {
		return errNotLoggedIn
	}

	if len(t.alerts) > 0 {
		return errors.New(t.alerts[len(t.alerts)-1])
	}

	return nil
}

type env struct {
	api      *client.Client
	deps     app.Deps
	terminal *terminal
}

// setup wires the client, the session file and the terminal into controller deps.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := client.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	path := sessionPath
	if path == "" {
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, fmt.Errorf("session path: %w", err)
		}
	}

	sessions, err := app.NewFileSessionStore(path)
	if err != nil {
		return nil, err
	}

	log := logger
	if log == nil {
		log = zap.NewNop()
	}

	api := client.New(cfg, client.WithLogger(log))
	term := &terminal{errOut: cmd.ErrOrStderr()}

	return &env{
		api:      api,
		terminal: term,
		deps: app.Deps{
			API:       api,
			Sessions:  sessions,
			Navigator: term,
			Alerter:   term,
			Log:       log,
		},
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
