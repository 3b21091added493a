package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/wrapperspb"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
)

func newConfigureCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure <osc_port>",
		Short: "Deliver the OSC port to the UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := strconv.ParseUint(args[0], 10, 16)
			if err != nil {
				return fmt.Errorf("invalid port %q: %w", args[0], err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			conn, err := dial(v)
			if err != nil {
				return err
			}
			defer conn.Close()

			client := apiv1.NewBridgeServiceClient(conn)
			return retry(ctx, v.GetDuration("retry"), func(ctx context.Context) error {
				_, err := client.Configure(ctx, wrapperspb.UInt32(uint32(port)))
				return err
			})
		},
	}
	return cmd
}
