package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"prism/internal/config"
	"prism/internal/ipc"
	"prism/internal/logging"
	"prism/internal/startup"
	"prism/internal/viewer"
)

type rootOptions struct {
	configPath string
	exposure   float64
	offset     float64
	filter     string
	metric     string
	tonemap    string
	maximize   bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "prism [flags] [IMAGE|:SELECTOR ...]",
		Short: "HDR image inspector",
		Long: "Prism displays HDR and LDR images for inspection and comparison.\n" +
			"If another instance is already running, the requested images are\n" +
			"handed to it instead of opening a second window. An argument of\n" +
			"the form :name selects that channel group for the files after it.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.Float64VarP(&opts.exposure, "exposure", "e", 0, "Scale brightness by 2^exposure before tonemapping")
	flags.Float64VarP(&opts.offset, "offset", "o", 0, "Add offset to brightness after exposure")
	flags.StringVarP(&opts.filter, "filter", "f", "", "Only show images and channel groups matching the filter")
	flags.StringVarP(&opts.metric, "metric", "m", "", "Comparison metric (e, ae, se, rae, rse)")
	flags.StringVarP(&opts.tonemap, "tonemap", "t", "", "Tonemap algorithm (srgb, gamma, fc, pn)")
	flags.BoolVar(&opts.maximize, "maximize", false, "Maximize the window on startup")

	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newConfigCommand(&opts.configPath))

	return rootCmd
}

func runViewer(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return validationErr(err)
	}

	display, err := resolveDisplay(cmd, opts, cfg)
	if err != nil {
		return validationErr(err)
	}

	entries := startup.ClassifyArgs(args)
	if !cmd.Flags().Changed("maximize") {
		// Opening specific files suggests the user wants to look at
		// them closely; an empty viewer starts small.
		display.Maximize = len(entries) > 0
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return runtimeErr(err)
	}
	resolveLogFormat(cfg)
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return runtimeErr(err)
	}

	coord, err := ipc.New(cfg.Paths.LockFile, cfg.Paths.Socket, logger)
	if err != nil {
		return runtimeErr(err)
	}

	if !coord.IsPrimary() {
		defer coord.Close()
		startup.ForwardToPrimary(coord, entries, cmd.ErrOrStderr(), logger)
		return nil
	}

	logger.Info("starting viewer",
		logging.String(logging.FieldRole, coord.Role().String()),
		logging.Float64("exposure", display.Exposure),
		logging.Float64("offset", display.Offset),
		logging.String("tonemap", display.Tonemap.String()),
		logging.String("metric", display.Metric.String()),
		logging.Bool("maximize", display.Maximize),
		logging.Int("images", len(entries)))

	primary := startup.NewPrimary(coord, startup.Options{
		Entries:      entries,
		Sink:         viewer.NewLogSink(logger, display.Filter),
		PollInterval: time.Duration(cfg.Viewer.PollIntervalMillis) * time.Millisecond,
		Workers:      cfg.Loader.Workers,
		Stdout:       cmd.OutOrStdout(),
		Stderr:       cmd.ErrOrStderr(),
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := primary.Run(ctx)
	if closeErr := coord.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	if runErr != nil {
		return runtimeErr(runErr)
	}
	return nil
}

// resolveDisplay merges viewer defaults from the config file with the
// command-line flags; a flag given explicitly wins.
func resolveDisplay(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) (viewer.Options, error) {
	display := viewer.Options{
		Exposure: cfg.Viewer.Exposure,
		Offset:   cfg.Viewer.Offset,
		Filter:   cfg.Viewer.Filter,
	}
	tonemapName := cfg.Viewer.Tonemap
	metricName := cfg.Viewer.Metric

	flags := cmd.Flags()
	if flags.Changed("exposure") {
		display.Exposure = opts.exposure
	}
	if flags.Changed("offset") {
		display.Offset = opts.offset
	}
	if flags.Changed("filter") {
		display.Filter = opts.filter
	}
	if flags.Changed("tonemap") {
		tonemapName = opts.tonemap
	}
	if flags.Changed("metric") {
		metricName = opts.metric
	}
	if flags.Changed("maximize") {
		display.Maximize = opts.maximize
	}

	tonemap, err := viewer.ParseTonemap(tonemapName)
	if err != nil {
		return viewer.Options{}, err
	}
	metric, err := viewer.ParseMetric(metricName)
	if err != nil {
		return viewer.Options{}, err
	}
	display.Tonemap = tonemap
	display.Metric = metric
	return display, nil
}

// resolveLogFormat replaces the "auto" format with console when stderr
// is a terminal and json otherwise.
func resolveLogFormat(cfg *config.Config) {
	if cfg.Logging.Format != "auto" {
		return
	}
	cfg.Logging.Format = "json"
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		cfg.Logging.Format = "console"
	}
}
