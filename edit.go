package main

import (
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wiki-edit/internal/config"
	"wiki-edit/internal/editor"
	"wiki-edit/internal/tui"
	"wiki-edit/internal/wiki"
)

func newEditCmd() *cobra.Command {
	var dev bool
	var mode string
	cmd := &cobra.Command{
		Use:   "edit <page>",
		Short: "Open a page in the editor",
		Long: `Open a page in the editor. <page> is an absolute URL or a page name
resolved against base_url. With --dev, a development wiki is started in
the background and <page> is resolved against it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if mode != "" {
				cfg.Editor.Mode = config.EditorMode(mode)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return runEdit(cfg, args[0], dev)
		},
	}
	cmd.Flags().BoolVar(&dev, "dev", false, "edit against an in-process development wiki")
	cmd.Flags().StringVar(&mode, "editor", "", "editor surface: auto, rich or plain (overrides config)")
	return cmd
}

func runEdit(cfg *config.Config, pageArg string, dev bool) error {
	ctx, cancel := signalContext()
	defer cancel()

	// The alt screen owns the terminal, so logs only go to a file.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "wiki-edit")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else if _, err := openLogFile("", nil); err != nil {
		return err
	}

	if dev {
		base, stop, err := startDevServer(cfg.Dev.Port, verbose)
		if err != nil {
			return err
		}
		defer stop()
		cfg.BaseURL = base
		// Only the path of a full URL survives; the host is the dev wiki.
		if u, err := url.Parse(pageArg); err == nil && u.Scheme != "" {
			pageArg = u.Path
		}
	}

	pageURL, err := cfg.ResolvePage(pageArg)
	if err != nil {
		return err
	}
	sess, err := wiki.NewSession(pageURL, wiki.Options{
		Timeout:    cfg.Timeout,
		CookieName: cfg.CSRF.Cookie,
		HeaderName: cfg.CSRF.Header,
		Logf:       logf,
	})
	if err != nil {
		return err
	}
	ep, err := sess.Open(ctx)
	if err != nil {
		return err
	}

	caps := editor.DefaultCapabilities()
	if cfg.Editor.Mode == config.EditorPlain {
		caps = editor.Capabilities{}
	}
	return tui.Run(ctx, sess, ep, tui.Options{
		Capabilities: caps,
		Plain:        editor.PlainOptions{ShrinkDelta: cfg.Editor.ShrinkDelta},
		NoColor:      cfg.NoColor,
		Logf:         logf,
	})
}
