package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/robgonnella/portx/internal/config"
	"github.com/robgonnella/portx/internal/core"
	"github.com/robgonnella/portx/internal/event"
	"github.com/robgonnella/portx/internal/logger"
	"github.com/robgonnella/portx/internal/ports"
	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/robgonnella/portx/internal/target"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// creates and returns the "scan" command
func scan() *cobra.Command {
	var portSpec string
	var common bool
	var concurrency int
	var timeout time.Duration
	var txtFile string
	var jsonFile string
	var noHistory bool
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "scan HOST",
		Short: "Scans TCP ports of a host without launching the UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()

			conf, err := config.Load(viper.GetString("config-file"))

			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("ports") {
				portSpec = conf.Scan.Ports
			}

			if common {
				portSpec = ports.Join(ports.Common())
			}

			if !cmd.Flags().Changed("concurrency") {
				concurrency = conf.Scan.Concurrency
			}

			if !cmd.Flags().Changed("timeout") {
				timeout = conf.Scan.Timeout
			}

			portList, err := ports.Parse(portSpec)

			if err != nil {
				return err
			}

			req := scanner.Request{
				Host:        args[0],
				Ports:       portList,
				Concurrency: concurrency,
				Timeout:     timeout,
			}

			if err := req.Validate(); err != nil {
				return err
			}

			opts := []core.AppOption{}

			if noHistory {
				opts = append(opts, core.WithoutHistory())
			}

			appCore, err := core.CreateNewAppCore(opts...)

			if err != nil {
				return err
			}

			defer appCore.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if addr, err := target.Resolve(ctx, req.Host); err == nil {
				log.Debug().Str("host", req.Host).Str("address", addr).Msg("resolved target")
			} else {
				log.Warn().Err(err).Str("host", req.Host).Msg("failed to resolve target")
			}

			progressChan := make(chan event.Event, 100)
			listenerID := appCore.RegisterEventListener(event.ScanProgressEventType, progressChan)
			defer appCore.RemoveEventListener(listenerID)

			done := make(chan struct{})
			printerDone := make(chan struct{})

			go func() {
				defer close(printerDone)
				printProgress(cmd.ErrOrStderr(), progressChan, done)
			}()

			go func() {
				select {
				case <-ctx.Done():
					appCore.StopScan()
				case <-done:
				}
			}()

			rep, err := appCore.Scan(req)

			close(done)
			<-printerDone

			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr())

			printReport(cmd.OutOrStdout(), rep, openOnly)

			if txtFile != "" {
				if err := report.SaveText(txtFile, rep); err != nil {
					return err
				}
				log.Info().Str("file", txtFile).Msg("saved text report")
			}

			if jsonFile != "" {
				if err := report.SaveJSON(jsonFile, rep); err != nil {
					return err
				}
				log.Info().Str("file", jsonFile).Msg("saved json report")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&portSpec, "ports", "p", config.DefaultPorts, "ports to scan e.g. 22,80,8000-8100")
	cmd.Flags().BoolVar(&common, "common", false, "scan the common ports list")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", config.DefaultConcurrency, "maximum simultaneous connection attempts")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", config.DefaultTimeout, "timeout of each connection attempt")
	cmd.Flags().StringVar(&txtFile, "txt", "", "save results as text to file")
	cmd.Flags().StringVar(&jsonFile, "json", "", "save results as json to file")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record scan in history")
	cmd.Flags().BoolVar(&openOnly, "open", false, "only list open ports")

	return cmd
}

func printProgress(w io.Writer, events chan event.Event, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case evt := <-events:
			if p, ok := evt.Payload.(event.ProgressPayload); ok {
				fmt.Fprintf(w, "\rScanned: %d/%d", p.Done, p.Total)
			}
		}
	}
}

func printReport(w io.Writer, r *report.Report, openOnly bool) {
	table := tablewriter.NewWriter(w)
	table.Header("Port", "Status", "Time", "Description")

	for _, o := range r.Results {
		if openOnly && o.Status != scanner.StatusOpen {
			continue
		}

		port := strconv.Itoa(o.Port)
		description := ports.Describe(o.Port)

		if o.IsFault() {
			port = "-"
			description = "probe fault"
		}

		_ = table.Append([]string{
			port,
			string(o.Status),
			report.FormatElapsed(o.Elapsed),
			description,
		})
	}

	_ = table.Render()

	state := "complete"

	if r.Canceled {
		state = fmt.Sprintf("canceled, %d not probed", len(r.Unprobed))
	}

	fmt.Fprintf(
		w,
		"%s: %d open, %d closed, %d timeout, %d error in %s (%s)\n",
		r.Host,
		r.Summary.Open,
		r.Summary.Closed,
		r.Summary.Timeout,
		r.Summary.Error,
		report.FormatElapsed(&r.Duration),
		state,
	)
}

