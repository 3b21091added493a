package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "extui-host",
		Short:         "Host one external UI bridge and control it over gRPC",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newViper(configFile)
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			level, _ := parseLevel(cfg.LogLevel)
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			d, err := newDaemon(cfg)
			if err != nil {
				return err
			}
			if used := v.ConfigFileUsed(); used != "" {
				logger.Info("watching config", "file", used)
				watchPort(v, d.srv.deliverPort)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return d.run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: ./extui.yaml or $HOME/.config/extui/extui.yaml)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
