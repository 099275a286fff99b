package scanner

import (
	"sort"
	"sync/atomic"
)

// Aggregate sorts outcomes ascending by port and counts them by status.
// The input slice is never modified.
func Aggregate(outcomes []Outcome) ([]Outcome, Summary) {
	sorted := make([]Outcome, len(outcomes))
	copy(sorted, outcomes)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Port < sorted[j].Port
	})

	summary := Summary{Total: len(sorted)}

	for _, o := range sorted {
		if o.IsFault() {
			summary.Error++
			continue
		}

		switch o.Status {
		case StatusOpen:
			summary.Open++
		case StatusClosed:
			summary.Closed++
		case StatusTimeout:
			summary.Timeout++
		default:
			summary.Error++
		}
	}

	return sorted, summary
}

// Unprobed returns the requested ports missing from launched, sorted
// ascending. Launched ports count as probed even when their task faulted.
func Unprobed(requested []int, launched []int) []int {
	probed := map[int]struct{}{}

	for _, p := range launched {
		probed[p] = struct{}{}
	}

	missing := []int{}

	for _, p := range requested {
		if _, ok := probed[p]; !ok {
			missing = append(missing, p)
		}
	}

	sort.Ints(missing)

	return missing
}

// Progress tracks completed probes against a total and is safe to tick
// from many goroutines
type Progress struct {
	total int64
	done  atomic.Int64
}

// NewProgress returns a new instance of Progress
func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Tick records one completed probe and returns the new done count
func (p *Progress) Tick() int {
	return p.Advance(1)
}

// Advance records n completed probes and returns the new done count
func (p *Progress) Advance(n int) int {
	return int(p.done.Add(int64(n)))
}

// Done returns the number of completed probes
func (p *Progress) Done() int {
	return int(p.done.Load())
}

// Total returns the number of probes expected
func (p *Progress) Total() int {
	return int(p.total)
}

// Fraction returns done/total in the range [0, 1]
func (p *Progress) Fraction() float64 {
	if p.total == 0 {
		return 0
	}

	fraction := float64(p.done.Load()) / float64(p.total)

	if fraction > 1 {
		return 1
	}

	return fraction
}
