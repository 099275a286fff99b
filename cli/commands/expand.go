package commands

import (
	"fmt"

	"github.com/robgonnella/portx/internal/target"
	"github.com/spf13/cobra"
)

// creates and returns the "expand" command
func expand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand CIDR",
		Short: "Lists every address of a CIDR block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addresses, err := target.ExpandCIDR(args[0])

			if err != nil {
				return err
			}

			for _, addr := range addresses {
				fmt.Fprintln(cmd.OutOrStdout(), addr)
			}

			return nil
		},
	}

	return cmd
}
