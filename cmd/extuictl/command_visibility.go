package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc/codes"
	"google.golang.org/protobuf/types/known/emptypb"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
)

func newShowCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the UI, starting it once the port is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			conn, err := dial(v)
			if err != nil {
				return err
			}
			defer conn.Close()

			client := apiv1.NewBridgeServiceClient(conn)
			err = retry(ctx, v.GetDuration("retry"), func(ctx context.Context) error {
				_, err := client.Show(ctx, &emptypb.Empty{})
				return err
			})
			if grpcCode(err) == codes.Aborted {
				_, _ = fmt.Fprintln(os.Stderr, "The UI could not be started; see the daemon log.")
			}
			return err
		},
	}
	return cmd
}

func newHideCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hide",
		Short: "Hide the UI and wait for it to exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Long enough for a terminate timeout plus the kill.
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			conn, err := dial(v)
			if err != nil {
				return err
			}
			defer conn.Close()

			client := apiv1.NewBridgeServiceClient(conn)
			return retry(ctx, v.GetDuration("retry"), func(ctx context.Context) error {
				_, err := client.Hide(ctx, &emptypb.Empty{})
				return err
			})
		},
	}
	return cmd
}

func newIdleCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idle",
		Short: "Run one idle tick and print whether the UI is closed",
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
			var closed bool
			err = retry(ctx, v.GetDuration("retry"), func(ctx context.Context) error {
				resp, err := client.Idle(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				closed = resp.GetValue()
				return nil
			})
			if err != nil {
				return err
			}
			if closed {
				fmt.Fprintln(cmd.OutOrStdout(), "closed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "open")
			}
			return nil
		},
	}
	return cmd
}
