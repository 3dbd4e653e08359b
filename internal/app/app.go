package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agbru/sysoptimizer/internal/config"
	apperrors "github.com/agbru/sysoptimizer/internal/errors"
	"github.com/agbru/sysoptimizer/internal/logging"
	"github.com/agbru/sysoptimizer/internal/store"
	"github.com/agbru/sysoptimizer/internal/sysmon"
	"github.com/agbru/sysoptimizer/internal/ui"
)

// Application represents the sysoptimizer application instance.
type Application struct {
	Config config.AppConfig
	Out    io.Writer
	ErrOut io.Writer

	logger    logging.Logger
	lookup    config.LookupFunc
	source    func() sysmon.Source
	now       func() time.Time
	tuiOpts   []tea.ProgramOption
	closeLogs func() error
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource replaces the host counters, mainly for tests.
func WithSource(s sysmon.Source) AppOption {
	return func(a *Application) { a.source = func() sysmon.Source { return s } }
}

// WithEnv replaces the environment lookup used by configuration.
func WithEnv(lookup config.LookupFunc) AppOption {
	return func(a *Application) { a.lookup = lookup }
}

// WithNow replaces the wall clock used by seed.
func WithNow(now func() time.Time) AppOption {
	return func(a *Application) { a.now = now }
}

// WithTUIOptions passes options to the dashboard's tea.Program.
func WithTUIOptions(opts ...tea.ProgramOption) AppOption {
	return func(a *Application) { a.tuiOpts = append(a.tuiOpts, opts...) }
}

// New creates an Application writing to out and errOut.
func New(out, errOut io.Writer, opts ...AppOption) *Application {
	a := &Application{
		Config: config.Default(),
		Out:    out,
		ErrOut: errOut,
		logger: logging.NewNopLogger(),
		source: func() sysmon.Source { return sysmon.NewHostSource() },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer, opts ...AppOption) int {
	a := New(out, errOut, opts...)
	defer a.close()

	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	root := a.NewRootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err != nil && !apperrors.IsContextError(err) {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return apperrors.ExitCodeFor(err)
}

// NewRootCommand builds the command tree. The root command collects.
func (a *Application) NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sysoptimizer",
		Short: "Collect host and per-process resource usage into SQLite",
		Long: `sysoptimizer samples system CPU, memory and disk usage plus the CPU and
memory of every running process at a fixed cadence, and appends the
readings to the system_stats and process_stats tables of a SQLite file.`,
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCollect(cmd.Context())
		},
	}
	config.BindFlags(root.PersistentFlags(), &a.Config)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewConfigError("%v", err)
	})
	root.AddCommand(a.newReportCommand(), a.newSeedCommand())
	return root
}

// setup resolves the configuration and initializes theme and logging.
func (a *Application) setup(fs *pflag.FlagSet) error {
	if err := config.Resolve(&a.Config, fs, a.lookup); err != nil {
		return err
	}
	ui.InitTheme(a.Config.NoColor)
	return a.setupLogging()
}

// setupLogging sends logs to the log file, to stderr, or nowhere when the
// dashboard owns the terminal.
func (a *Application) setupLogging() error {
	w := a.ErrOut
	if a.Config.TUI {
		w = io.Discard
	}
	noColor := a.Config.NoColor
	if a.Config.LogFile != "" {
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return apperrors.NewConfigError("cannot open log file: %v", err)
		}
		a.closeLogs = f.Close
		w = f
		noColor = true
	}
	l, err := logging.New(w, logging.Options{
		Level:     a.Config.LogLevel,
		Format:    a.Config.LogFormat,
		Component: "sysoptimizer",
		NoColor:   noColor,
	})
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	a.logger = l
	return nil
}

func (a *Application) close() {
	if a.closeLogs != nil {
		_ = a.closeLogs()
		a.closeLogs = nil
	}
}

// openStore opens the database and makes sure both tables exist.
func (a *Application) openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(a.Config.DBPath)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	a.logger.Debug("store ready", logging.String("path", st.Path()))
	return st, nil
}
