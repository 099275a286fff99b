package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robgonnella/portx/internal/ports"
	"github.com/robgonnella/portx/internal/scanner"
)

const textDateFormat = "2006-01-02 15:04:05"

// jsonResult represents one port entry of the json export
type jsonResult struct {
	Port        int            `json:"port"`
	Status      scanner.Status `json:"status"`
	TimeMS      *int64         `json:"time_ms"`
	Description string         `json:"description"`
	Fault       bool           `json:"fault,omitempty"`
}

// jsonDocument represents the json export document
type jsonDocument struct {
	ID         string          `json:"id"`
	Host       string          `json:"host"`
	ScanDate   string          `json:"scan_date"`
	TotalPorts int             `json:"total_ports"`
	Canceled   bool            `json:"canceled"`
	Summary    scanner.Summary `json:"summary"`
	Results    []jsonResult    `json:"results"`
	Unprobed   []int           `json:"unprobed,omitempty"`
}

// WriteText writes the plain text rendering of a report
func WriteText(w io.Writer, r *Report) error {
	b := &strings.Builder{}

	fmt.Fprintf(b, "Port Scan Results for %s\n", r.Host)
	fmt.Fprintf(b, "Scan Date: %s\n", r.Date.Format(textDateFormat))
	fmt.Fprintf(b, "Total Ports Scanned: %d\n", len(r.Results))
	b.WriteString(strings.Repeat("-", 50) + "\n\n")

	for _, o := range r.Results {
		fmt.Fprintf(b, "Port %5d (%-15s): %-8s", o.Port, ports.Describe(o.Port), o.Status)

		if ms, ok := o.Millis(); ok {
			fmt.Fprintf(b, " (%dms)", ms)
		}

		b.WriteString("\n")
	}

	if r.Canceled {
		fmt.Fprintf(b, "\nScan canceled: %d of %d ports not probed\n", len(r.Unprobed), r.Requested)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// WriteJSON writes the structured rendering of a report
func WriteJSON(w io.Writer, r *Report) error {
	doc := jsonDocument{
		ID:         r.ID,
		Host:       r.Host,
		ScanDate:   r.Date.Format(time.RFC3339),
		TotalPorts: len(r.Results),
		Canceled:   r.Canceled,
		Summary:    r.Summary,
		Results:    make([]jsonResult, 0, len(r.Results)),
		Unprobed:   r.Unprobed,
	}

	for _, o := range r.Results {
		res := jsonResult{
			Port:        o.Port,
			Status:      o.Status,
			Description: ports.Describe(o.Port),
			Fault:       o.IsFault(),
		}

		if ms, ok := o.Millis(); ok {
			res.TimeMS = &ms
		}

		doc.Results = append(doc.Results, res)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(&doc)
}

// SaveText atomically writes the text rendering of a report to path
func SaveText(path string, r *Report) error {
	buf := &bytes.Buffer{}

	if err := WriteText(buf, r); err != nil {
		return err
	}

	return writeAtomic(path, buf.Bytes())
}

// SaveJSON atomically writes the json rendering of a report to path
func SaveJSON(path string, r *Report) error {
	buf := &bytes.Buffer{}

	if err := WriteJSON(buf, r); err != nil {
		return err
	}

	return writeAtomic(path, buf.Bytes())
}

// writeAtomic writes to a temp file in the target directory then renames
// it into place so readers never observe a partial report
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "portx-*.tmp")

	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename report file: %w", err)
	}

	return nil
}
