package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wiki-edit/internal/devserver"
	"wiki-edit/internal/httpx"
	"wiki-edit/internal/ports"
)

const welcomeBody = `# Welcome

This page lives in the development wiki. Edit it, press **ctrl+p** to preview
and **ctrl+s** to save.
`

func newServeDevCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve-dev",
		Short: "Run the in-memory development wiki",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Dev.Port
			}
			closeLog, err := openLogFile(cfg.LogFile, os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := signalContext()
			defer cancel()
			base, stop, err := startDevServer(port, verbose)
			if err != nil {
				return err
			}
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "development wiki at %s/Home (Ctrl-C to stop)\n", base)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (0 picks a free one)")
	return cmd
}

// startDevServer serves a seeded development wiki on 127.0.0.1 and waits
// until it answers. stop shuts it down.
func startDevServer(port int, requestLog bool) (string, func(), error) {
	if port == 0 {
		p, err := ports.FindFreePort()
		if err != nil {
			return "", nil, fmt.Errorf("pick dev port: %w", err)
		}
		port = p
	} else if !ports.Available(port) {
		return "", nil, fmt.Errorf("dev port %d is already in use", port)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	dev := devserver.New(devserver.Config{Verbose: requestLog, Logf: logf})
	dev.Seed("Home", welcomeBody)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: dev.Router(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logf("devserver: %v", err)
		}
	}()

	base := "http://" + addr
	if err := httpx.WaitHTTPUp(base+"/Home", 5*time.Second); err != nil {
		_ = srv.Close()
		return "", nil, err
	}
	logf("devserver: listening on %s", base)
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return base, stop, nil
}
