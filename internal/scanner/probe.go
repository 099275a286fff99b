package scanner

import (
	"context"
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/robgonnella/portx/internal/logger"
)

// DialFunc establishes a network connection, matches net.Dialer.DialContext
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// TCPProber implements Prober using a plain TCP connect
type TCPProber struct {
	dial DialFunc
	log  logger.Logger
}

// ProberOption configures a TCPProber
type ProberOption func(p *TCPProber)

// WithDialFunc overrides the function used to establish connections
func WithDialFunc(dial DialFunc) ProberOption {
	return func(p *TCPProber) {
		p.dial = dial
	}
}

// NewTCPProber returns a new instance of TCPProber
func NewTCPProber(options ...ProberOption) *TCPProber {
	dialer := &net.Dialer{}

	p := &TCPProber{
		dial: dialer.DialContext,
		log:  logger.New(),
	}

	for _, o := range options {
		o(p)
	}

	return p
}

// Probe attempts one TCP connection to host:port and classifies the result.
// Open connections are closed immediately. Probe never panics.
func (p *TCPProber) Probe(ctx context.Context, host string, port int, timeout time.Duration) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().
				Str("host", host).
				Int("port", port).
				Interface("panic", r).
				Msg("probe panicked")
			outcome = Outcome{Port: port, Status: StatusError}
		}
	}()

	address := net.JoinHostPort(host, strconv.Itoa(port))

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dial(dialCtx, "tcp", address)
	elapsed := time.Since(start)

	if err != nil {
		status := Classify(err)

		p.log.Debug().
			Str("address", address).
			Str("status", string(status)).
			Err(err).
			Msg("probe failed")

		return Outcome{Port: port, Status: status}
	}

	if err := conn.Close(); err != nil {
		p.log.Debug().Str("address", address).Err(err).Msg("failed to close probe connection")
	}

	return openOutcome(port, elapsed)
}

// Classify maps a dial error onto a probe status
func Classify(err error) Status {
	if err == nil {
		return StatusOpen
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return StatusTimeout
	}

	var netErr net.Error

	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout
	}

	if isConnectionRefused(err) {
		return StatusClosed
	}

	return StatusError
}

func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	// windows reports refusals as WSAECONNREFUSED which does not unwrap
	// to syscall.ECONNREFUSED
	msg := err.Error()

	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "actively refused")
}
