package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"todohl/internal/logging"
	"todohl/internal/lsp"
	"todohl/internal/version"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the todohl language server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runLSP,
	}
}

func runLSP(cmd *cobra.Command, _ []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(st.cfg.LSP.LogLevel)
	if err != nil {
		return err
	}
	// stdout carries the protocol; logs always go to stderr
	logger := logging.New(os.Stderr, level, logging.FormatText, "lsp")
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:  st.cfg.Debounce(),
		CacheSize: st.cfg.LSP.CacheSize,
		MinBucket: st.cfg.MinBucket(),
		Logger:    logger,
		Version:   version.Version,
	})
	logger.Info("starting", "version", version.Version, "debounce", st.cfg.Debounce())
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) || errors.Is(err, context.Canceled) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return errors.New("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
