package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/robgonnella/portx/internal/core"
	"github.com/robgonnella/portx/internal/report"
	"github.com/spf13/cobra"
)

// creates and returns the "history" command
func history() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists and manages recorded scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lists recorded scans newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Prints the results of a recorded scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := core.CreateHistoryService()

			if err != nil {
				return err
			}

			rep, err := service.Get(args[0])

			if err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}

			printReport(cmd.OutOrStdout(), rep, false)

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Deletes a recorded scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := core.CreateHistoryService()

			if err != nil {
				return err
			}

			if err := service.Delete(args[0]); err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted scan %s\n", args[0])

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Deletes every recorded scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := core.CreateHistoryService()

			if err != nil {
				return err
			}

			if err := service.Clear(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "cleared scan history")

			return nil
		},
	})

	return cmd
}

func listHistory(w io.Writer) error {
	service, err := core.CreateHistoryService()

	if err != nil {
		return err
	}

	reports, err := service.List()

	if err != nil {
		return err
	}

	printHistory(w, reports)

	return nil
}

func printHistory(w io.Writer, reports []*report.Report) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Date", "Host", "Ports", "Open", "Duration", "State")

	for _, r := range reports {
		state := "complete"

		if r.Canceled {
			state = "canceled"
		}

		_ = table.Append([]string{
			r.ID,
			r.Date.Local().Format(time.DateTime),
			r.Host,
			fmt.Sprintf("%d", r.Requested),
			fmt.Sprintf("%d", r.Summary.Open),
			report.FormatElapsed(&r.Duration),
			state,
		})
	}

	_ = table.Render()
}
