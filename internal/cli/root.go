package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/smallbiznis/pizzaria/internal/clock"
	"github.com/smallbiznis/pizzaria/internal/config"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Options lets tests swap the filesystem, clock and output.
type Options struct {
	Fs     afero.Fs
	Clock  clock.Clock
	Out    io.Writer
	Config config.Config
	Log    *zap.Logger
}

type app struct {
	opts    Options
	dataDir string
	verbose bool
}

// NewRootCommand builds the kitchenctl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	a := &app{opts: opts}
	root := &cobra.Command{
		Use:   "kitchenctl",
		Short: "Operate the pizzaria kitchen data files",
		Long: `kitchenctl works directly on the JSON collections under DATA_DIR.

It can seed missing collections, run the maintenance sweep once, print the
menu as customers see it and tail kitchen events from the broker.`,
		SilenceUsage: true,
	}
	root.SetOut(opts.Out)
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", opts.Config.Data.Dir, "directory holding the JSON collections")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log store and service activity")

	root.AddCommand(
		a.seedCommand(),
		a.sweepCommand(),
		a.menuCommand(),
		a.stockCommand(),
		a.eventsCommand(),
	)
	return root
}

// Execute runs kitchenctl against the OS filesystem.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := NewRootCommand(Options{Config: cfg}).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func (a *app) logger() *zap.Logger {
	if a.opts.Log != nil {
		return a.opts.Log
	}
	if !a.verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	a.opts.Log = log
	return log
}

func (a *app) store() *jsonstore.Store {
	dir := a.dataDir
	if dir == "" {
		dir = "data"
	}
	return jsonstore.New(a.opts.Fs, dir, jsonstore.WithLogger(a.logger().Named("jsonstore")))
}
