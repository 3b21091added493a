package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
)

func newStatusCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the UI state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			conn, err := dial(v)
			if err != nil {
				return err
			}
			defer conn.Close()

			client := apiv1.NewBridgeServiceClient(conn)
			var resp *structpb.Struct
			err = retry(ctx, v.GetDuration("retry"), func(ctx context.Context) error {
				resp, err = client.Status(ctx, &emptypb.Empty{})
				return err
			})
			if err != nil {
				return err
			}
			printStatusTable(cmd.OutOrStdout(), resp.AsMap())
			return nil
		},
	}
	return cmd
}
