package commands

import (
	"fmt"

	"github.com/robgonnella/portx/internal/info"
	"github.com/spf13/cobra"
)

func version() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s: %s\n",
				info.NAME,
				info.VERSION,
			)
		},
	}

	return cmd
}
