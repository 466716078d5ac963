package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ZaguanLabs/gotdt/provider"
	"github.com/ZaguanLabs/gotdt/server"
)

type purger interface {
	Purge(ctx context.Context) (int64, error)
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP translation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(true); err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			p, err := a.newPipeline()
			if err != nil {
				return err
			}
			defer p.Close()

			if pc, ok := p.cache.(purger); ok {
				if n, err := pc.Purge(cmd.Context()); err != nil {
					a.logger.Warn("cache purge failed", "error", err)
				} else if n > 0 {
					a.logger.Info("expired cache entries purged", "entries", n)
				}
			}

			var opts []server.Option
			if pinger, ok := p.provider.(provider.Pinger); ok {
				opts = append(opts, server.WithPinger(pinger))
			}

			return server.New(p.Pipeline, a.cfg, a.logger, opts...).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config and PORT)")

	return cmd
}
