package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/wrapperspb"

	apiv1 "github.com/SanjoDeundiak/extui/api/v1"
)

func newLogsCmd(v *viper.Viper) *cobra.Command {
	var stream string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream UI output from the beginning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			conn, err := dial(v)
			if err != nil {
				return err
			}
			defer conn.Close()

			client := apiv1.NewBridgeServiceClient(conn)
			out, err := client.GetOutput(ctx, wrapperspb.String(stream))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if stream == apiv1.StreamStderr {
				w = cmd.ErrOrStderr()
			}
			for {
				msg, err := out.Recv()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if _, err := w.Write(msg.GetValue()); err != nil {
					return err
				}
			}
		},
	}

	cmd.Flags().StringVar(&stream, "stream", apiv1.StreamStdout, "output stream: stdout or stderr")
	return cmd
}
