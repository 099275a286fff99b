package scanner_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/robgonnella/portx/internal/exception"
	mock_scanner "github.com/robgonnella/portx/internal/mock/scanner"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/stretchr/testify/assert"
)

// instrumentedProber records how many probes run at once
type instrumentedProber struct {
	delay    time.Duration
	inFlight atomic.Int64
	peak     atomic.Int64
	calls    atomic.Int64
	statusFn func(port int) scanner.Status
}

func (p *instrumentedProber) Probe(ctx context.Context, host string, port int, timeout time.Duration) scanner.Outcome {
	current := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	p.calls.Add(1)

	for {
		peak := p.peak.Load()
		if current <= peak || p.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	time.Sleep(p.delay)

	status := scanner.StatusClosed

	if p.statusFn != nil {
		status = p.statusFn(port)
	}

	return scanner.Outcome{Port: port, Status: status}
}

func portRange(start, end int) []int {
	result := []int{}
	for p := start; p <= end; p++ {
		result = append(result, p)
	}
	return result
}

func TestScheduler(t *testing.T) {
	t.Run("produces one outcome per requested port", func(st *testing.T) {
		prober := &instrumentedProber{delay: time.Millisecond}
		scheduler := scanner.NewScheduler(prober)

		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       portRange(1, 200),
			Concurrency: 25,
			Timeout:     time.Second,
		}

		var progress atomic.Int64

		outcomes, err := scheduler.Scan(context.Background(), req, func() {
			progress.Add(1)
		})

		assert.NoError(st, err)
		assert.Equal(st, len(req.Ports), len(outcomes))
		assert.Equal(st, int64(len(req.Ports)), progress.Load())

		seen := map[int]int{}
		for _, o := range outcomes {
			seen[o.Port]++
		}

		for _, p := range req.Ports {
			assert.Equal(st, 1, seen[p], "port %d", p)
		}
	})

	t.Run("never exceeds concurrency limit", func(st *testing.T) {
		prober := &instrumentedProber{delay: time.Millisecond * 5}
		scheduler := scanner.NewScheduler(prober)

		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       portRange(1000, 1099),
			Concurrency: 7,
			Timeout:     time.Second,
		}

		outcomes, err := scheduler.Scan(context.Background(), req, nil)

		assert.NoError(st, err)
		assert.Equal(st, 100, len(outcomes))
		assert.LessOrEqual(st, prober.peak.Load(), int64(7))
		assert.Greater(st, prober.peak.Load(), int64(1))
		assert.Equal(st, int64(0), prober.inFlight.Load())
	})

	t.Run("concurrency of one serializes probes", func(st *testing.T) {
		prober := &instrumentedProber{delay: time.Millisecond}
		scheduler := scanner.NewScheduler(prober)

		req := scanner.Request{
			Host:        "example.com",
			Ports:       portRange(1, 10),
			Concurrency: 1,
			Timeout:     time.Second,
		}

		_, err := scheduler.Scan(context.Background(), req, nil)

		assert.NoError(st, err)
		assert.Equal(st, int64(1), prober.peak.Load())
	})

	t.Run("rejects invalid requests before probing", func(st *testing.T) {
		prober := &instrumentedProber{}
		scheduler := scanner.NewScheduler(prober)

		requests := []scanner.Request{
			{Host: "127.0.0.1", Ports: []int{}, Concurrency: 1, Timeout: time.Second},
			{Host: "127.0.0.1", Ports: []int{80}, Concurrency: 0, Timeout: time.Second},
			{Host: "127.0.0.1", Ports: []int{80}, Concurrency: 1, Timeout: 0},
			{Host: "not a host!", Ports: []int{80}, Concurrency: 1, Timeout: time.Second},
			{Host: "127.0.0.1", Ports: []int{0}, Concurrency: 1, Timeout: time.Second},
			{Host: "127.0.0.1", Ports: []int{80, 80}, Concurrency: 1, Timeout: time.Second},
		}

		progressCalled := false

		for _, req := range requests {
			outcomes, err := scheduler.Scan(context.Background(), req, func() {
				progressCalled = true
			})

			assert.ErrorIs(st, err, exception.ErrInvalidRequest)
			assert.Nil(st, outcomes)
		}

		assert.False(st, progressCalled)
		assert.Equal(st, int64(0), prober.calls.Load())
	})

	t.Run("substitutes fault sentinel when a probe task panics", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockProber := mock_scanner.NewMockProber(ctrl)

		mockProber.EXPECT().
			Probe(gomock.Any(), "127.0.0.1", gomock.Any(), time.Second).
			DoAndReturn(func(ctx context.Context, host string, port int, timeout time.Duration) scanner.Outcome {
				if port == 443 {
					panic("framework fault")
				}
				return scanner.Outcome{Port: port, Status: scanner.StatusClosed}
			}).
			Times(3)

		scheduler := scanner.NewScheduler(mockProber)

		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       []int{22, 80, 443},
			Concurrency: 3,
			Timeout:     time.Second,
		}

		var progress atomic.Int64

		outcomes, err := scheduler.Scan(context.Background(), req, func() {
			progress.Add(1)
		})

		assert.NoError(st, err)
		assert.Equal(st, 3, len(outcomes))
		assert.Equal(st, int64(3), progress.Load())

		sorted, summary := scanner.Aggregate(outcomes)

		assert.True(st, sorted[0].IsFault())
		assert.Equal(st, scanner.FaultPort, sorted[0].Port)
		assert.Equal(st, scanner.StatusError, sorted[0].Status)
		assert.Equal(st, 1, summary.Error)
		assert.Equal(st, 2, summary.Closed)
	})

	t.Run("stops launching probes when canceled", func(st *testing.T) {
		prober := &instrumentedProber{delay: time.Millisecond * 20}
		scheduler := scanner.NewScheduler(prober)

		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       portRange(1, 50),
			Concurrency: 2,
			Timeout:     time.Second,
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var progress atomic.Int64

		outcomes, err := scheduler.Scan(ctx, req, func() {
			if progress.Add(1) == 2 {
				cancel()
			}
		})

		assert.ErrorIs(st, err, exception.ErrScanCanceled)
		assert.Less(st, len(outcomes), len(req.Ports))
		assert.Equal(st, progress.Load(), int64(len(outcomes)))
		assert.Equal(st, prober.calls.Load(), int64(len(outcomes)))

		var canceledErr *scanner.CanceledError

		assert.ErrorAs(st, err, &canceledErr)
		assert.Equal(st, len(req.Ports), len(outcomes)+len(canceledErr.Unprobed))
	})

	t.Run("counts faulted ports as probed when canceled", func(st *testing.T) {
		ctrl := gomock.NewController(st)
		defer ctrl.Finish()

		mockProber := mock_scanner.NewMockProber(ctrl)

		mockProber.EXPECT().
			Probe(gomock.Any(), "127.0.0.1", gomock.Any(), time.Second).
			DoAndReturn(func(ctx context.Context, host string, port int, timeout time.Duration) scanner.Outcome {
				if port == 1 {
					panic("framework fault")
				}
				return scanner.Outcome{Port: port, Status: scanner.StatusClosed}
			}).
			Times(2)

		scheduler := scanner.NewScheduler(mockProber)

		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       portRange(1, 6),
			Concurrency: 1,
			Timeout:     time.Second,
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var progress atomic.Int64

		outcomes, err := scheduler.Scan(ctx, req, func() {
			if progress.Add(1) == 2 {
				cancel()
			}
		})

		var canceledErr *scanner.CanceledError

		assert.ErrorAs(st, err, &canceledErr)
		assert.Equal(st, 2, len(outcomes))
		assert.Equal(st, []int{3, 4, 5, 6}, canceledErr.Unprobed)
		assert.NotContains(st, canceledErr.Unprobed, 1)
		assert.Equal(st, len(req.Ports), len(outcomes)+len(canceledErr.Unprobed))
	})

	t.Run("returns nothing when canceled before start", func(st *testing.T) {
		prober := &instrumentedProber{}
		scheduler := scanner.NewScheduler(prober)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       portRange(1, 5),
			Concurrency: 5,
			Timeout:     time.Second,
		}

		outcomes, err := scheduler.Scan(ctx, req, nil)

		var canceledErr *scanner.CanceledError

		assert.ErrorIs(st, err, exception.ErrScanCanceled)
		assert.ErrorAs(st, err, &canceledErr)
		assert.Equal(st, req.Ports, canceledErr.Unprobed)
		assert.Empty(st, outcomes)
		assert.Equal(st, int64(0), prober.calls.Load())
	})

	t.Run("scans real listener end to end", func(st *testing.T) {
		listener, openPort := listenLocal(st)
		defer listener.Close()

		go func() {
			for {
				conn, err := listener.Accept()
				if err != nil {
					return
				}
				conn.Close()
			}
		}()

		closedListener, closedPort := listenLocal(st)
		closedListener.Close()

		scheduler := scanner.NewScheduler(scanner.NewTCPProber())

		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       []int{closedPort, openPort},
			Concurrency: 2,
			Timeout:     time.Second,
		}

		outcomes, err := scheduler.Scan(context.Background(), req, nil)

		assert.NoError(st, err)

		byPort := map[int]scanner.Outcome{}
		for _, o := range outcomes {
			byPort[o.Port] = o
		}

		assert.Equal(st, scanner.StatusOpen, byPort[openPort].Status)
		assert.Equal(st, scanner.StatusClosed, byPort[closedPort].Status)
	})
}

func TestProgress(t *testing.T) {
	t.Run("counts concurrent ticks", func(st *testing.T) {
		progress := scanner.NewProgress(1000)

		wg := sync.WaitGroup{}

		for i := 0; i < 1000; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				progress.Tick()
			}()
		}

		wg.Wait()

		assert.Equal(st, 1000, progress.Done())
		assert.Equal(st, 1000, progress.Total())
		assert.Equal(st, 1.0, progress.Fraction())
	})

	t.Run("reports zero fraction for empty total", func(st *testing.T) {
		assert.Equal(st, 0.0, scanner.NewProgress(0).Fraction())
	})
}
