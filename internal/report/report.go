package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robgonnella/portx/internal/scanner"
)

// Report represents a completed or canceled scan ready for rendering
// and persistence
type Report struct {
	ID          string
	Host        string
	Date        time.Time
	Duration    time.Duration
	Concurrency int
	Timeout     time.Duration
	Requested   int
	Results     []scanner.Outcome
	Summary     scanner.Summary
	Canceled    bool
	Unprobed    []int
}

// New aggregates outcomes of a scan request into a Report. unprobed is
// nil for a completed scan, otherwise the scan is marked canceled and
// unprobed lists the ports that were never launched.
func New(
	req scanner.Request,
	outcomes []scanner.Outcome,
	started time.Time,
	finished time.Time,
	unprobed []int,
) *Report {
	results, summary := scanner.Aggregate(outcomes)

	canceled := unprobed != nil

	if unprobed == nil {
		unprobed = []int{}
	}

	return &Report{
		ID:          uuid.New().String(),
		Host:        req.Host,
		Date:        started,
		Duration:    finished.Sub(started),
		Concurrency: req.Concurrency,
		Timeout:     req.Timeout,
		Requested:   len(req.Ports),
		Results:     results,
		Summary:     summary,
		Canceled:    canceled,
		Unprobed:    unprobed,
	}
}

// OpenPorts returns the ports classified open
func (r *Report) OpenPorts() []int {
	open := []int{}

	for _, o := range r.Results {
		if o.Status == scanner.StatusOpen && !o.IsFault() {
			open = append(open, o.Port)
		}
	}

	return open
}

// FormatElapsed renders an optional elapsed time for display
func FormatElapsed(d *time.Duration) string {
	if d == nil {
		return "N/A"
	}

	ms := d.Milliseconds()

	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}

	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

// DefaultFilename generates a file name for a report export
func DefaultFilename(r *Report, ext string) string {
	host := strings.NewReplacer(":", "_", "/", "_").Replace(r.Host)

	return fmt.Sprintf(
		"scan_%s_%s.%s",
		host,
		r.Date.Format("20060102_150405"),
		strings.TrimPrefix(ext, "."),
	)
}
