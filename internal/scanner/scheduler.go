package scanner

import (
	"context"
	"sync"

	"github.com/robgonnella/portx/internal/logger"
	"golang.org/x/sync/semaphore"
)

// Scheduler fans out one probe per requested port while bounding how many
// probes are in flight at once
type Scheduler struct {
	prober Prober
	log    logger.Logger
}

// NewScheduler returns a new instance of Scheduler
func NewScheduler(prober Prober) *Scheduler {
	return &Scheduler{
		prober: prober,
		log:    logger.New(),
	}
}

// Scan probes every port in the request and returns the unordered outcomes.
// onProgress may be nil, otherwise it fires exactly once per probed port.
// When ctx is canceled no new probes are launched, probes already in flight
// run to completion and the outcomes gathered so far are returned along
// with a *CanceledError listing the ports never launched.
func (s *Scheduler) Scan(ctx context.Context, req Request, onProgress ProgressFunc) ([]Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("host", req.Host).
		Int("ports", len(req.Ports)).
		Int("concurrency", req.Concurrency).
		Dur("timeout", req.Timeout).
		Msg("starting scan")

	gate := semaphore.NewWeighted(int64(req.Concurrency))

	// in-flight probes are never aborted mid-connect
	probeCtx := context.WithoutCancel(ctx)

	results := make(chan Outcome, len(req.Ports))
	wg := &sync.WaitGroup{}
	launched := make([]int, 0, len(req.Ports))
	canceled := false

	for _, port := range req.Ports {
		if ctx.Err() != nil {
			canceled = true
			break
		}

		if err := gate.Acquire(ctx, 1); err != nil {
			canceled = true
			break
		}

		// acquire can win the race against a cancel that landed while waiting
		if ctx.Err() != nil {
			gate.Release(1)
			canceled = true
			break
		}

		launched = append(launched, port)
		wg.Add(1)

		go func(p int) {
			defer wg.Done()
			defer gate.Release(1)

			results <- s.probe(probeCtx, req, p)

			if onProgress != nil {
				onProgress()
			}
		}(port)
	}

	wg.Wait()
	close(results)

	outcomes := make([]Outcome, 0, len(req.Ports))

	for o := range results {
		outcomes = append(outcomes, o)
	}

	if canceled {
		unprobed := Unprobed(req.Ports, launched)

		s.log.Info().
			Int("probed", len(outcomes)).
			Int("unprobed", len(unprobed)).
			Int("requested", len(req.Ports)).
			Msg("scan canceled")

		return outcomes, &CanceledError{Unprobed: unprobed}
	}

	s.log.Info().Int("probed", len(outcomes)).Msg("scan complete")

	return outcomes, nil
}

// probe runs a single prober call and substitutes a fault sentinel for any
// panic escaping the prober
func (s *Scheduler) probe(ctx context.Context, req Request, port int) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Int("port", port).
				Interface("panic", r).
				Msg("probe task faulted, substituting error outcome")
			outcome = faultOutcome()
		}
	}()

	s.log.Debug().Int("port", port).Msg("probing")

	return s.prober.Probe(ctx, req.Host, port, req.Timeout)
}
