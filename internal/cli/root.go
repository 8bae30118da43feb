// Package cli implements the buxgalter command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/buxgalter/internal/paths"
	"github.com/mesh-intelligence/buxgalter/internal/render"
	"github.com/mesh-intelligence/buxgalter/internal/sqlite"
	"github.com/mesh-intelligence/buxgalter/internal/workspace"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one command invocation.
type app struct {
	flags  rootFlags
	stdout io.Writer
	stderr io.Writer

	// now and newLogger are replaced in tests.
	now       func() time.Time
	newLogger func(verbose bool, level string) (*zap.Logger, error)

	settings settings
	logger   *zap.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:    stdout,
		stderr:    stderr,
		now:       time.Now,
		newLogger: newLogger,
	}
}

// rootCmd creates the top-level "buxgalter" command with global flags and
// all subcommands registered.
func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "buxgalter",
		Short: "A small-business ledger for invoices, stock, purchases and budget",
		Long: `Buxgalter keeps invoices, warehouse stock, purchase orders and budget
lines in a local store and derives VAT, aging, budget variance, three-way
match and cash-flow reports from them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError(err)
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(a.versionCmd())
	root.AddCommand(a.initCmd())
	root.AddCommand(invoicesCmd(a))
	root.AddCommand(stockCmd(a))
	root.AddCommand(purchasesCmd(a))
	root.AddCommand(budgetCmd(a))
	root.AddCommand(a.reportCmd())
	return root
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute() int {
	return run(os.Args[1:], newApp(os.Stdout, os.Stderr))
}

func run(args []string, a *app) int {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(a.stderr, "buxgalter:", err)
	return exitCode(err)
}

// setup loads configuration and builds the logger before any subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	s, err := a.loadSettings()
	if err != nil {
		return err
	}
	a.settings = s

	logger, err := a.newLogger(a.flags.verbose, s.logLevel)
	if err != nil {
		return systemError(fmt.Errorf("build logger: %w", err))
	}
	a.logger = logger.With(zap.String("command", cmd.CommandPath()))
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", s.configDir),
		zap.String("data_dir", s.store.DataDir))
	return nil
}

// openWorkspace attaches the store and wraps it in a Workspace. The returned
// func detaches the store.
func (a *app) openWorkspace() (*workspace.Workspace, func(), error) {
	store := sqlite.NewBackend()
	if err := store.Attach(a.settings.store); err != nil {
		return nil, nil, fmt.Errorf("attach store: %w", err)
	}
	closeFn := func() {
		if err := store.Detach(); err != nil {
			a.logger.Warn("detach store", zap.Error(err))
		}
	}
	ws, err := workspace.New(store, a.settings.store, a.logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return ws, closeFn, nil
}

// printer returns a renderer for the configured locale.
func (a *app) printer() *render.Printer {
	return render.New(a.stdout, a.locale())
}

func (a *app) locale() language.Tag {
	if a.settings.store.Locale == "" {
		return language.Und
	}
	tag, err := language.Parse(a.settings.store.Locale)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("unknown locale, using root collation", zap.String("locale", a.settings.store.Locale))
		}
		return language.Und
	}
	return tag
}

func (a *app) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
