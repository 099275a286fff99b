package history

import (
	"encoding/json"
	"time"

	"github.com/robgonnella/portx/internal/logger"
	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/scanner"
	"gorm.io/datatypes"
)

// storedOutcome is the serialized form of a scanner.Outcome
type storedOutcome struct {
	Port      int            `json:"port"`
	Status    scanner.Status `json:"status"`
	ElapsedMS *int64         `json:"elapsed_ms"`
}

// HistoryService represents our history.Service implementation
type HistoryService struct {
	log  logger.Logger
	repo Repo
}

// NewService returns a new instance of HistoryService
func NewService(repo Repo) *HistoryService {
	return &HistoryService{
		log:  logger.New(),
		repo: repo,
	}
}

// Save persists a scan report
func (s *HistoryService) Save(r *report.Report) error {
	record, err := reportToRecord(r)

	if err != nil {
		return err
	}

	if _, err := s.repo.Create(record); err != nil {
		return err
	}

	s.log.Debug().Str("id", r.ID).Str("host", r.Host).Msg("saved scan report")

	return nil
}

// List returns all stored reports newest first
func (s *HistoryService) List() ([]*report.Report, error) {
	records, err := s.repo.GetAll()

	if err != nil {
		return nil, err
	}

	reports := []*report.Report{}

	for _, record := range records {
		r, err := recordToReport(record)

		if err != nil {
			return nil, err
		}

		reports = append(reports, r)
	}

	return reports, nil
}

// Get returns a single stored report
func (s *HistoryService) Get(id string) (*report.Report, error) {
	record, err := s.repo.Get(id)

	if err != nil {
		return nil, err
	}

	return recordToReport(record)
}

// Delete removes a stored report
func (s *HistoryService) Delete(id string) error {
	return s.repo.Delete(id)
}

// Clear removes all stored reports
func (s *HistoryService) Clear() error {
	return s.repo.DeleteAll()
}

// helpers
func reportToRecord(r *report.Report) (*Record, error) {
	outcomes := make([]storedOutcome, 0, len(r.Results))

	for _, o := range r.Results {
		stored := storedOutcome{Port: o.Port, Status: o.Status}

		if ms, ok := o.Millis(); ok {
			stored.ElapsedMS = &ms
		}

		outcomes = append(outcomes, stored)
	}

	resultBytes, err := json.Marshal(outcomes)

	if err != nil {
		return nil, err
	}

	unprobed := r.Unprobed

	if unprobed == nil {
		unprobed = []int{}
	}

	unprobedBytes, err := json.Marshal(unprobed)

	if err != nil {
		return nil, err
	}

	return &Record{
		ID:          r.ID,
		Host:        r.Host,
		Date:        r.Date,
		DurationMS:  r.Duration.Milliseconds(),
		Concurrency: r.Concurrency,
		TimeoutMS:   r.Timeout.Milliseconds(),
		Requested:   r.Requested,
		Open:        r.Summary.Open,
		Closed:      r.Summary.Closed,
		Timeout:     r.Summary.Timeout,
		Error:       r.Summary.Error,
		Canceled:    r.Canceled,
		Results:     datatypes.JSON(resultBytes),
		Unprobed:    datatypes.JSON(unprobedBytes),
	}, nil
}

func recordToReport(record *Record) (*report.Report, error) {
	stored := []storedOutcome{}

	if err := json.Unmarshal([]byte(record.Results.String()), &stored); err != nil {
		return nil, err
	}

	unprobed := []int{}

	if len(record.Unprobed) > 0 {
		if err := json.Unmarshal([]byte(record.Unprobed.String()), &unprobed); err != nil {
			return nil, err
		}
	}

	results := make([]scanner.Outcome, 0, len(stored))

	for _, o := range stored {
		outcome := scanner.Outcome{Port: o.Port, Status: o.Status}

		if o.ElapsedMS != nil {
			elapsed := time.Duration(*o.ElapsedMS) * time.Millisecond
			outcome.Elapsed = &elapsed
		}

		results = append(results, outcome)
	}

	results, summary := scanner.Aggregate(results)

	return &report.Report{
		ID:          record.ID,
		Host:        record.Host,
		Date:        record.Date,
		Duration:    time.Duration(record.DurationMS) * time.Millisecond,
		Concurrency: record.Concurrency,
		Timeout:     time.Duration(record.TimeoutMS) * time.Millisecond,
		Requested:   record.Requested,
		Results:     results,
		Summary:     summary,
		Canceled:    record.Canceled,
		Unprobed:    unprobed,
	}, nil
}
