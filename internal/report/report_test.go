package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/robgonnella/portx/internal/report"
	"github.com/robgonnella/portx/internal/scanner"
	"github.com/stretchr/testify/assert"
)

func testReport(canceled bool) *report.Report {
	elapsed := 12 * time.Millisecond
	started := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	req := scanner.Request{
		Host:        "127.0.0.1",
		Ports:       []int{22, 80, 443, 12345},
		Concurrency: 10,
		Timeout:     time.Second,
	}

	outcomes := []scanner.Outcome{
		{Port: 443, Status: scanner.StatusTimeout},
		{Port: 22, Status: scanner.StatusOpen, Elapsed: &elapsed},
		{Port: 80, Status: scanner.StatusClosed},
	}

	var unprobed []int

	if canceled {
		unprobed = []int{12345}
	} else {
		outcomes = append(outcomes, scanner.Outcome{Port: 12345, Status: scanner.StatusError})
	}

	return report.New(req, outcomes, started, started.Add(time.Second*2), unprobed)
}

func TestNew(t *testing.T) {
	t.Run("aggregates completed scan", func(st *testing.T) {
		r := testReport(false)

		assert.NotEmpty(st, r.ID)
		assert.Equal(st, "127.0.0.1", r.Host)
		assert.Equal(st, 4, r.Requested)
		assert.Equal(st, time.Second*2, r.Duration)
		assert.Equal(st, 22, r.Results[0].Port)
		assert.Equal(st, 12345, r.Results[3].Port)
		assert.Equal(st, scanner.Summary{Total: 4, Open: 1, Closed: 1, Timeout: 1, Error: 1}, r.Summary)
		assert.Empty(st, r.Unprobed)
		assert.False(st, r.Canceled)
		assert.Equal(st, []int{22}, r.OpenPorts())
	})

	t.Run("lists unprobed ports for canceled scan", func(st *testing.T) {
		r := testReport(true)

		assert.True(st, r.Canceled)
		assert.Equal(st, []int{12345}, r.Unprobed)
		assert.Equal(st, 3, r.Summary.Total)
	})

	t.Run("keeps faulted ports out of unprobed list", func(st *testing.T) {
		req := scanner.Request{
			Host:        "127.0.0.1",
			Ports:       []int{1, 2, 3},
			Concurrency: 1,
			Timeout:     time.Second,
		}

		started := time.Now()

		r := report.New(req, []scanner.Outcome{
			{Port: scanner.FaultPort, Status: scanner.StatusError},
			{Port: 2, Status: scanner.StatusClosed},
		}, started, started, []int{3})

		assert.True(st, r.Canceled)
		assert.Equal(st, []int{3}, r.Unprobed)
		assert.Equal(st, 1, r.Summary.Error)
		assert.Equal(st, r.Requested, r.Summary.Total+len(r.Unprobed))
	})
}

func TestWriteText(t *testing.T) {
	t.Run("renders header and fixed width lines", func(st *testing.T) {
		buf := &bytes.Buffer{}

		err := report.WriteText(buf, testReport(false))

		assert.NoError(st, err)

		lines := strings.Split(buf.String(), "\n")

		assert.Equal(st, "Port Scan Results for 127.0.0.1", lines[0])
		assert.Equal(st, "Scan Date: 2024-03-09 14:05:07", lines[1])
		assert.Equal(st, "Total Ports Scanned: 4", lines[2])
		assert.Equal(st, strings.Repeat("-", 50), lines[3])
		assert.Equal(st, "", lines[4])
		assert.Equal(st, "Port    22 (SSH            ): open     (12ms)", lines[5])
		assert.Equal(st, "Port    80 (HTTP           ): closed  ", lines[6])
		assert.Equal(st, "Port   443 (HTTPS          ): timeout ", lines[7])
		assert.Equal(st, "Port 12345 (Port 12345     ): error   ", lines[8])
	})

	t.Run("notes canceled scans", func(st *testing.T) {
		buf := &bytes.Buffer{}

		err := report.WriteText(buf, testReport(true))

		assert.NoError(st, err)
		assert.Contains(st, buf.String(), "Scan canceled: 1 of 4 ports not probed")
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("renders structured document", func(st *testing.T) {
		buf := &bytes.Buffer{}

		err := report.WriteJSON(buf, testReport(false))

		assert.NoError(st, err)

		doc := map[string]interface{}{}

		assert.NoError(st, json.Unmarshal(buf.Bytes(), &doc))
		assert.Equal(st, "127.0.0.1", doc["host"])
		assert.Equal(st, "2024-03-09T14:05:07Z", doc["scan_date"])
		assert.Equal(st, float64(4), doc["total_ports"])

		results := doc["results"].([]interface{})

		assert.Equal(st, 4, len(results))

		first := results[0].(map[string]interface{})

		assert.Equal(st, float64(22), first["port"])
		assert.Equal(st, "open", first["status"])
		assert.Equal(st, float64(12), first["time_ms"])
		assert.Equal(st, "SSH", first["description"])

		second := results[1].(map[string]interface{})

		assert.Nil(st, second["time_ms"])
		assert.Equal(st, "closed", second["status"])
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	t.Run("saves text and json files creating directories", func(st *testing.T) {
		r := testReport(false)

		txtPath := filepath.Join(dir, "nested", report.DefaultFilename(r, "txt"))
		jsonPath := filepath.Join(dir, "nested", report.DefaultFilename(r, ".json"))

		assert.NoError(st, report.SaveText(txtPath, r))
		assert.NoError(st, report.SaveJSON(jsonPath, r))

		txt, err := os.ReadFile(txtPath)

		assert.NoError(st, err)
		assert.True(st, strings.HasPrefix(string(txt), "Port Scan Results for 127.0.0.1"))

		data, err := os.ReadFile(jsonPath)

		assert.NoError(st, err)
		assert.True(st, json.Valid(data))

		assert.Equal(st, "scan_127.0.0.1_20240309_140507.txt", filepath.Base(txtPath))
		assert.Equal(st, "scan_127.0.0.1_20240309_140507.json", filepath.Base(jsonPath))
	})

	t.Run("reports unwritable destination", func(st *testing.T) {
		blocker := filepath.Join(dir, "blocker")

		assert.NoError(st, os.WriteFile(blocker, []byte("x"), 0644))

		err := report.SaveText(filepath.Join(blocker, "report.txt"), testReport(false))

		assert.Error(st, err)
	})
}

func TestFormatElapsed(t *testing.T) {
	t.Run("formats milliseconds and seconds", func(st *testing.T) {
		short := 250 * time.Millisecond
		long := 1500 * time.Millisecond

		assert.Equal(st, "N/A", report.FormatElapsed(nil))
		assert.Equal(st, "250ms", report.FormatElapsed(&short))
		assert.Equal(st, "1.5s", report.FormatElapsed(&long))
	})
}
