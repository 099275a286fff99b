package scanner

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../mock/scanner/mock_scanner.go -package=mock_scanner . Prober,Scanner

// Prober interface for performing a single port probe. Implementations
// must resolve every failure to a classified Outcome.
type Prober interface {
	Probe(ctx context.Context, host string, port int, timeout time.Duration) Outcome
}

// Scanner interface for running a full port scan of a request
type Scanner interface {
	Scan(ctx context.Context, req Request, onProgress ProgressFunc) ([]Outcome, error)
}
