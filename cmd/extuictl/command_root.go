package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the CLI. Flags may also be set as EXTUI_* environment
// variables, e.g. EXTUI_ADDRESS or EXTUI_TLS_CA.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("EXTUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "extuictl",
		Short:         "Control an extui-host daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("address", defaultAddress, "daemon address")
	flags.Bool("insecure", false, "connect without TLS")
	flags.Duration("retry", 5*time.Second, "how long to retry while the daemon is unavailable")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindPFlag("tls.insecure", flags.Lookup("insecure"))
	_ = v.BindPFlag("retry", flags.Lookup("retry"))

	root.AddCommand(newConfigureCmd(v))
	root.AddCommand(newShowCmd(v))
	root.AddCommand(newHideCmd(v))
	root.AddCommand(newIdleCmd(v))
	root.AddCommand(newStatusCmd(v))
	root.AddCommand(newLogsCmd(v))

	return root
}
