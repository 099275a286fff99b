package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robgonnella/portx/internal/config"
	"github.com/robgonnella/portx/internal/event"
	"github.com/robgonnella/portx/internal/exception"
	"github.com/robgonnella/portx/internal/history"
	"github.com/robgonnella/portx/internal/logger"
	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/scanner"
)

// Core represents our core data structure
type Core struct {
	ctx        context.Context
	cancel     context.CancelFunc
	conf       config.Config
	scanner    scanner.Scanner
	history    history.Service
	events     event.Manager
	logger     logger.Logger
	scanCancel context.CancelFunc
	progress   *scanner.Progress
	startupErr error
	mux        sync.Mutex
}

// New returns new core module for given configuration. A nil history
// service disables recording of scans.
func New(
	conf *config.Config,
	portScanner scanner.Scanner,
	historyService history.Service,
	eventManager event.Manager,
) *Core {
	log := logger.New()

	ctx, cancel := context.WithCancel(context.Background())

	return &Core{
		ctx:     ctx,
		cancel:  cancel,
		conf:    *conf,
		scanner: portScanner,
		history: historyService,
		events:  eventManager,
		logger:  log,
		mux:     sync.Mutex{},
	}
}

// Stop cancels any running scan and stops background monitoring
func (c *Core) Stop() error {
	c.cancel()
	return c.ctx.Err()
}

// Conf returns the current configuration
func (c *Core) Conf() config.Config {
	c.mux.Lock()
	defer c.mux.Unlock()

	return c.conf
}

// UpdateConfig writes conf to the config file and makes it current
func (c *Core) UpdateConfig(conf config.Config) error {
	if err := config.Write(conf); err != nil {
		return err
	}

	c.mux.Lock()
	c.conf = conf
	c.mux.Unlock()

	return nil
}

// History returns the scan history service, nil when recording is disabled
func (c *Core) History() history.Service {
	return c.history
}

// IsScanning returns true while a scan is running
func (c *Core) IsScanning() bool {
	c.mux.Lock()
	defer c.mux.Unlock()

	return c.scanCancel != nil
}

// Progress returns the progress tracker of the running or last scan
func (c *Core) Progress() *scanner.Progress {
	c.mux.Lock()
	defer c.mux.Unlock()

	return c.progress
}

// StopScan cancels the running scan. Probes already connecting finish on
// their own timeout. Does nothing when no scan is running.
func (c *Core) StopScan() {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.scanCancel != nil {
		c.logger.Info().Msg("stopping scan")
		c.scanCancel()
	}
}

// RegisterEventListener registers a channel to receive events of eventType
func (c *Core) RegisterEventListener(eventType event.EventType, channel chan event.Event) int {
	return c.events.RegisterListener(eventType, channel)
}

// RemoveEventListener removes a registered event listener
func (c *Core) RemoveEventListener(id int) {
	c.events.RemoveListener(id)
}

// Scan runs a scan of req and returns the resulting report. A scan stopped
// with StopScan returns a report marked canceled listing the unprobed ports.
func (c *Core) Scan(req scanner.Request) (*report.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.mux.Lock()

	if c.scanCancel != nil {
		c.mux.Unlock()
		return nil, exception.ErrScanInProgress
	}

	ctx, cancel := context.WithCancel(c.ctx)
	progress := scanner.NewProgress(len(req.Ports))

	c.scanCancel = cancel
	c.progress = progress

	c.mux.Unlock()

	defer func() {
		cancel()
		c.mux.Lock()
		c.scanCancel = nil
		c.mux.Unlock()
	}()

	c.logger.Info().
		Str("host", req.Host).
		Int("ports", len(req.Ports)).
		Int("concurrency", req.Concurrency).
		Dur("timeout", req.Timeout).
		Msg("starting scan")

	c.events.Send(event.Event{
		Type:    event.ScanStartedEventType,
		Payload: event.StartedPayload{Host: req.Host, Total: len(req.Ports)},
	})

	started := time.Now()

	outcomes, err := c.scanner.Scan(ctx, req, func() {
		done := progress.Tick()

		c.events.Send(event.Event{
			Type:    event.ScanProgressEventType,
			Payload: event.ProgressPayload{Done: done, Total: progress.Total()},
		})
	})

	var unprobed []int
	var canceledErr *scanner.CanceledError

	switch {
	case errors.As(err, &canceledErr):
		unprobed = canceledErr.Unprobed
	case err != nil:
		c.logger.Error().Err(err).Msg("scan failed")
		return nil, err
	}

	rep := report.New(req, outcomes, started, time.Now(), unprobed)

	c.logger.Info().
		Str("id", rep.ID).
		Str("host", rep.Host).
		Int("open", rep.Summary.Open).
		Int("closed", rep.Summary.Closed).
		Int("timeout", rep.Summary.Timeout).
		Int("error", rep.Summary.Error).
		Bool("canceled", rep.Canceled).
		Dur("duration", rep.Duration).
		Msg("scan complete")

	c.record(rep)

	c.events.Send(event.Event{
		Type:    event.ScanCompleteEventType,
		Payload: rep,
	})

	return rep, nil
}

// record stores rep in history. Failures never fail the scan.
func (c *Core) record(rep *report.Report) {
	if c.history == nil {
		return
	}

	if err := c.history.Save(rep); err != nil {
		c.logger.Error().Err(err).Str("id", rep.ID).Msg("failed to record scan history")
		c.events.ReportError(err)
	}
}
