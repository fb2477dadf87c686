// Package main provides the bnf command line tool, which builds, normalizes
// and renders context-free grammars written in BNF.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/l-donovan/bnf/internal/config"
	"github.com/l-donovan/bnf/internal/logger"
	"github.com/l-donovan/bnf/internal/source"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "bnf"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags and configuration have
// been resolved.
type app struct {
	fs         afero.Fs
	environ    func() []string
	configPath string
	logLevel   string
	logJSON    bool

	cfg    *config.Config
	log    logger.Logger
	reader *source.Reader
}

func rootCmd(fs afero.Fs) *cobra.Command {
	return newRootCmd(&app{fs: fs, environ: os.Environ})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Build, normalize and render BNF grammars",
		Long: `bnf reads context-free grammars written one rule per line as

    <head> ::= alternative | alternative ...

and renders them in a canonical form, rewrites them towards Chomsky normal
form, or checks whole trees of grammar files at once.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")

	cmd.AddCommand(
		showCmd(a),
		normalizeCmd(a),
		checkCmd(a),
		watchCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(a.fs).WithEnviron(a.environ).Load(a.configPath)

	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}

	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = a.logJSON
	}

	logConfig := cfg.Logger()
	logConfig.Output = cmd.ErrOrStderr()

	a.cfg = cfg
	a.log = logger.NewLogger(logConfig)
	a.reader = source.NewReader(a.fs)

	a.log.Debug("configuration loaded", "config", a.configPath, "format", cfg.Render.Format, "workers", cfg.Batch.Workers)

	return nil
}
