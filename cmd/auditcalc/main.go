package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ChicagoDave/auditcalc/internal/config"
	"github.com/ChicagoDave/auditcalc/internal/metrics"
	"github.com/ChicagoDave/auditcalc/internal/server"
)

type options struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "auditcalc",
		Short:         "Industrial energy audit calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setup(&opts)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides config")

	rootCmd.AddCommand(runCmd(&opts))
	rootCmd.AddCommand(validateCmd(&opts))
	rootCmd.AddCommand(exportCmd(&opts))
	rootCmd.AddCommand(serveCmd(&opts))

	return rootCmd
}

// setup loads the config and configures the global logger.
func setup(opts *options) error {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.cfg = cfg
	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		if lvl, err = zerolog.ParseLevel(opts.logLevel); err != nil {
			return err
		}
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func runCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Validate and evaluate an audit, printing the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), opts, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func validateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Check an audit document without computing totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(opts, args[0])
		},
	}
}

func exportCmd(opts *options) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export [project-path]",
		Short: "Write the audit report as a spreadsheet or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), opts, args[0], format, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "report format: xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default audit.<format>)")
	return cmd
}

func serveCmd(opts *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the audit HTTP server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			metrics.Init()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := server.New(args[0], cfg.Port, cfg.Env(metrics.Recorder{}))
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port, overrides config")
	return cmd
}
