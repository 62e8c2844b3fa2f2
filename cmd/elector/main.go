// Command elector joins a leader election and reports its role.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "elector",
		Short:         "Predecessor-watch leader election over ZooKeeper or etcd",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newRunCmd(), newValidateCmd())

	return cmd
}
