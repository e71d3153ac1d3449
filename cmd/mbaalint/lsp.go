package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mbaalint/internal/lsp"
	"mbaalint/internal/version"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the mbaalint language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	matcher, err := cfg.Matcher()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, "lsp")
	if err != nil {
		return err
	}
	maxDiag, err := maxDiagnostics(cmd, cfg)
	if err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:       cfg.Debounce(),
		MaxDiagnostics: maxDiag,
		Matcher:        matcher,
		Root:           cfg.Root(),
		Logger:         logger,
		Version:        version.Plain(),
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
