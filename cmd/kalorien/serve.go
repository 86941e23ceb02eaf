package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pbaille/kalorien/internal/api"
	"github.com/pbaille/kalorien/internal/fetcher"
	"github.com/pbaille/kalorien/internal/photo"
	"github.com/spf13/cobra"
)

func serveCmd(open opener) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := open(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			az, err := a.analyzer()
			if err != nil {
				return err
			}
			session := photo.NewSession(az, fetcher.New(a.cfg.Analyzer.Timeout), a.store, a.now, a.log)

			if addr == "" {
				addr = a.cfg.Server.Addr()
			}
			server, err := api.New(a.store, session, api.Options{
				Addr:        addr,
				Mode:        a.cfg.Server.Mode,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				Now:         a.now,
				Log:         a.log,
			})
			if err != nil {
				return err
			}
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default from config)")
	return cmd
}

