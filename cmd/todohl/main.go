package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todohl/internal/config"
	"todohl/internal/logging"
	"todohl/internal/observ"
	"todohl/internal/version"
)

// main builds the command tree and exits with status 1 on any error. A
// --fail-on threshold hit also exits 1 but prints no error line.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errThreshold) {
			fmt.Fprintf(os.Stderr, "todohl: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "todohl",
		Short:         "Find, rank and navigate TODO and FIXME comments",
		Long:          `todohl scans source files for TODO and FIXME comments, ranks them by priority and renders them for terminals, CI systems and editors.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newScanCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newLSPCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())

	root.PersistentFlags().String("color", "", "colorize output (auto|on|off), default from config")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("config", "", "path to a config file (default: nearest "+config.FileName+")")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), default from config")
	return root
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// settings is the resolved configuration of one command run.
type settings struct {
	cfg   config.Config
	color bool
	quiet bool
	timer *observ.Timer
	log   *slog.Logger
}

// loadSettings merges config file, .env, environment and persistent flags.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()
	configPath, _ := flags.GetString("config")
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(wd, configPath)
	if err != nil {
		return nil, err
	}
	if v, _ := flags.GetString("color"); v != "" {
		cfg.Output.Color = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LSP.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	quiet, _ := flags.GetBool("quiet")
	timings, _ := flags.GetBool("timings")

	level, err := logging.ParseLevel(cfg.LSP.LogLevel)
	if err != nil {
		return nil, err
	}
	if quiet && level < slog.LevelError {
		level = slog.LevelError
	}
	st := &settings{
		cfg:   cfg,
		color: useColor(cfg.Output.Color, cmd.OutOrStdout()),
		quiet: quiet,
		log:   logging.New(cmd.ErrOrStderr(), level, logging.FormatText, "cli"),
	}
	if timings {
		st.timer = observ.NewTimer()
	}
	if cfg.Path != "" {
		st.log.Debug("loaded config", "path", cfg.Path)
	}
	return st, nil
}

func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f)
}
