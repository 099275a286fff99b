package scanner

import (
	"time"

	"github.com/robgonnella/portx/internal/exception"
)

// Status classification of a single probe
type Status string

// Enum values for our probe classifications
const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// FaultPort out-of-band port used for outcomes substituted after a probe
// task faulted outside the classified probe path. It is never a real port.
const FaultPort = 0

// Outcome represents the classified result of probing one port
type Outcome struct {
	Port   int
	Status Status
	// Elapsed connect time rounded to whole milliseconds, only set for open ports
	Elapsed *time.Duration
}

// IsFault returns true if outcome is a substituted fault sentinel
func (o Outcome) IsFault() bool {
	return o.Port == FaultPort
}

// Millis returns elapsed milliseconds and whether elapsed is present
func (o Outcome) Millis() (int64, bool) {
	if o.Elapsed == nil {
		return 0, false
	}

	return o.Elapsed.Milliseconds(), true
}

// Summary counts of outcomes by status
type Summary struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Closed  int `json:"closed"`
	Timeout int `json:"timeout"`
	Error   int `json:"error"`
}

// CanceledError returned by Scan alongside partial outcomes when the scan
// is canceled. Unprobed lists the requested ports that were never launched,
// sorted ascending. It matches exception.ErrScanCanceled with errors.Is.
type CanceledError struct {
	Unprobed []int
}

func (e *CanceledError) Error() string {
	return exception.ErrScanCanceled.Error()
}

func (e *CanceledError) Unwrap() error {
	return exception.ErrScanCanceled
}

// ProgressFunc notification fired once per completed port. It may be called
// concurrently from many goroutines and must not block.
type ProgressFunc func()

func openOutcome(port int, elapsed time.Duration) Outcome {
	rounded := elapsed.Round(time.Millisecond)

	return Outcome{
		Port:    port,
		Status:  StatusOpen,
		Elapsed: &rounded,
	}
}

func faultOutcome() Outcome {
	return Outcome{Port: FaultPort, Status: StatusError}
}
