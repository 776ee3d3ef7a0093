// Copyright
// SPDX-License-Identifier: MIT
// wiki-edit: terminal editor for one wiki page, plus a reference wiki server to edit against
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wiki-edit/internal/config"
)

const Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

/* ---------- CLI ---------- */

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wiki-edit",
		Short: "Edit a wiki page from the terminal",
		Long: `wiki-edit loads a wiki page's edit form, lets you change the body in a
rich or plain editor, previews it through the server, and saves or deletes
the page. Mutating requests carry the CSRF token from the wiki's cookie.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath(), "config file path")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	root.AddCommand(newEditCmd(), newServeDevCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of wiki-edit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wiki-edit %s\n", Version)
		},
	}
}

/* ---------- shared helpers ---------- */

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openLogFile points the standard logger at path. With no path, logging is
// discarded unless to is non-nil.
func openLogFile(path string, to io.Writer) (func(), error) {
	if path == "" {
		if to == nil {
			to = io.Discard
		}
		log.SetOutput(to)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.Printf("=== wiki-edit %s started ===", Version)
	return func() { _ = f.Close() }, nil
}

func logf(format string, args ...any) { log.Printf(format, args...) }
