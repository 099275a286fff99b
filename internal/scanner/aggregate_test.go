package scanner_test

import (
	"testing"
	"time"

	"github.com/robgonnella/portx/internal/scanner"
	"github.com/stretchr/testify/assert"
)

func elapsed(ms int) *time.Duration {
	d := time.Duration(ms) * time.Millisecond
	return &d
}

func TestAggregate(t *testing.T) {
	outcomes := []scanner.Outcome{
		{Port: 443, Status: scanner.StatusTimeout},
		{Port: 22, Status: scanner.StatusOpen, Elapsed: elapsed(3)},
		{Port: 8080, Status: scanner.StatusError},
		{Port: 80, Status: scanner.StatusClosed},
		{Port: 21, Status: scanner.StatusClosed},
	}

	t.Run("sorts ascending by port", func(st *testing.T) {
		sorted, _ := scanner.Aggregate(outcomes)

		ports := []int{}
		for _, o := range sorted {
			ports = append(ports, o.Port)
		}

		assert.Equal(st, []int{21, 22, 80, 443, 8080}, ports)
	})

	t.Run("counts by status", func(st *testing.T) {
		_, summary := scanner.Aggregate(outcomes)

		assert.Equal(st, scanner.Summary{
			Total:   5,
			Open:    1,
			Closed:  2,
			Timeout: 1,
			Error:   1,
		}, summary)

		assert.Equal(st, summary.Total, summary.Open+summary.Closed+summary.Timeout+summary.Error)
	})

	t.Run("does not mutate input and is idempotent", func(st *testing.T) {
		first, firstSummary := scanner.Aggregate(outcomes)
		second, secondSummary := scanner.Aggregate(outcomes)

		assert.Equal(st, first, second)
		assert.Equal(st, firstSummary, secondSummary)
		assert.Equal(st, 443, outcomes[0].Port)
	})

	t.Run("counts unknown statuses and faults as errors", func(st *testing.T) {
		_, summary := scanner.Aggregate([]scanner.Outcome{
			{Port: 1, Status: scanner.Status("weird")},
			{Port: scanner.FaultPort, Status: scanner.StatusError},
			{Port: scanner.FaultPort, Status: scanner.StatusError},
		})

		assert.Equal(st, 3, summary.Total)
		assert.Equal(st, 3, summary.Error)
	})

	t.Run("handles empty input", func(st *testing.T) {
		sorted, summary := scanner.Aggregate(nil)

		assert.Empty(st, sorted)
		assert.Equal(st, scanner.Summary{}, summary)
	})
}

func TestUnprobed(t *testing.T) {
	t.Run("lists requested ports never launched", func(st *testing.T) {
		missing := scanner.Unprobed([]int{80, 22, 443, 21}, []int{22})

		assert.Equal(st, []int{21, 80, 443}, missing)
	})

	t.Run("returns empty list when everything was launched", func(st *testing.T) {
		missing := scanner.Unprobed([]int{22, 80}, []int{80, 22})

		assert.Empty(st, missing)
	})
}

func TestOutcome(t *testing.T) {
	t.Run("reports elapsed millis only when present", func(st *testing.T) {
		ms, ok := scanner.Outcome{Port: 22, Status: scanner.StatusOpen, Elapsed: elapsed(12)}.Millis()

		assert.True(st, ok)
		assert.Equal(st, int64(12), ms)

		_, ok = scanner.Outcome{Port: 22, Status: scanner.StatusClosed}.Millis()

		assert.False(st, ok)
	})
}
