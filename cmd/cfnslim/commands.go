package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/cfnslim/internal/config"
	"github.com/dshills/cfnslim/internal/engine"
	"github.com/dshills/cfnslim/internal/logging"
	"github.com/dshills/cfnslim/internal/mcp"
	"github.com/dshills/cfnslim/internal/watch"
	"github.com/dshills/cfnslim/pkg/types"
)

// app holds flag values and the per-process dependencies built from them
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	logJSON    bool
	jsonOut    bool
	source     string
	outDir     string
	optimized  string
	dryRun     bool
	watchMode  string

	cfg    *config.Config
	logger *zap.Logger
}

// execute runs the CLI and returns the process exit status
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if a.jsonOut {
			_ = writeEnvelope(stdout, types.NewErrorEnvelope(err))
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cfnslim",
		Short: "Split and slim oversized infrastructure templates",
		Long: `cfnslim decomposes a monolithic CloudFormation/SAM template into
self-contained templates, one per marked section, and writes a reduced copy
of the template with comments and excess blank lines removed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath, "config file (YAML)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.logJSON, "log-json", false, "JSON log output on stderr")
	pf.BoolVar(&a.jsonOut, "json", false, "emit a single JSON result object on stdout")
	pf.StringVar(&a.source, "source", "", "source template (overrides config)")
	pf.StringVar(&a.outDir, "out-dir", "", "directory for split templates (overrides config)")
	pf.StringVar(&a.optimized, "optimized", "", "path of the optimized template (overrides config)")

	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Split the template into one file per section",
		Args:  cobra.NoArgs,
		RunE:  a.runMode(engine.ModeSplit),
	}
	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Write the template without comments and excess blank lines",
		Args:  cobra.NoArgs,
		RunE:  a.runMode(engine.ModeOptimize),
	}
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Split and optimize in one pass over the source",
		Args:  cobra.NoArgs,
		RunE:  a.runMode(engine.ModeAll),
	}
	for _, c := range []*cobra.Command{splitCmd, optimizeCmd, runCmd} {
		c.Flags().BoolVar(&a.dryRun, "dry-run", false, "report without writing files")
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run whenever the source template changes",
		Args:  cobra.NoArgs,
		RunE:  a.runWatch,
	}
	watchCmd.Flags().StringVar(&a.watchMode, "mode", "all", "what to run on change: split, optimize or all")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DefaultConfig().Save(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Wrote %s\n", a.configPath)
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "cfnslim %s (built %s)\n", version, buildTime)
		},
	}

	root.AddCommand(splitCmd, optimizeCmd, runCmd, watchCmd, serveCmd, initCmd, versionCmd)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "init":
		return nil
	case "watch", "serve":
		// --json promises a single object on stdout per process
		if a.jsonOut {
			return fmt.Errorf("--json is not supported by %s", cmd.Name())
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = a.source
	}
	if flags.Changed("out-dir") {
		cfg.OutDir = a.outDir
	}
	if flags.Changed("optimized") {
		cfg.Optimized = a.optimized
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Verbose: a.verbose,
		JSON:    a.logJSON || cfg.Logging.JSON,
	})
	if err != nil {
		return err
	}
	a.logger = logger

	return nil
}

// runMode returns a RunE that performs one engine run
func (a *app) runMode(mode engine.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		eng, err := engine.New(a.cfg, a.logger)
		if err != nil {
			return err
		}

		stats, err := eng.Run(cmd.Context(), mode, engine.Options{DryRun: a.dryRun})
		if err != nil {
			return err
		}
		return a.report(stats)
	}
}

func (a *app) runWatch(cmd *cobra.Command, args []string) error {
	mode, err := engine.ParseMode(a.watchMode)
	if err != nil {
		return err
	}

	debounce, err := time.ParseDuration(a.cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", a.cfg.Watch.Debounce, err)
	}

	eng, err := engine.New(a.cfg, a.logger)
	if err != nil {
		return err
	}

	rebuild := func(ctx context.Context) error {
		stats, err := eng.Run(ctx, mode, engine.Options{})
		if err != nil {
			return err
		}
		return a.report(stats)
	}

	w, err := watch.New(a.cfg.Source, debounce, rebuild, a.logger)
	if err != nil {
		return err
	}

	if err := rebuild(cmd.Context()); err != nil {
		a.logger.Error("initial run failed", zap.Error(err))
	}
	return w.Run(cmd.Context())
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	srv, err := mcp.NewServer(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	a.logger.Info("MCP server ready, listening on stdio",
		zap.String("name", mcp.ServerName),
		zap.String("version", mcp.ServerVersion))
	return srv.Serve(cmd.Context())
}

// report prints the run summary as text or as a JSON envelope
func (a *app) report(stats *engine.Statistics) error {
	var buf bytes.Buffer
	if err := engine.WriteSummary(&buf, stats); err != nil {
		return err
	}

	if a.jsonOut {
		return writeEnvelope(a.stdout, types.NewSuccessEnvelope(buf.String()))
	}
	_, err := a.stdout.Write(buf.Bytes())
	return err
}

func writeEnvelope(w io.Writer, env types.Envelope) error {
	enc := json.NewEncoder(w)
	return enc.Encode(env)
}
