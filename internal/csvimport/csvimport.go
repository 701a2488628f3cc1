// Package csvimport loads ticket and comment rows from helpdesk CSV
// exports. A missing required column fails the whole load; a missing
// required value in a row is only a per-row warning, with blank cells
// normalized to empty strings the mappers treat as absent.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// TicketRow is one row of the tickets CSV.
type TicketRow struct {
	Customer     string
	Number       string
	Subject      string
	Tech         string
	InitialIssue string
	Status       string
	IssueType    string
	Created      string
	Contact      string
	Priority     string
}

// CommentRow is one row of the comments CSV.
type CommentRow struct {
	Customer string
	Number   string
	Subject  string
	Body     string
	Contact  string
	Created  string
}

// Required column sets, matching the export headers.
var (
	ticketColumns = []string{
		"ticket customer",
		"ticket number",
		"ticket subject",
		"tech",
		"ticket initial issue",
		"ticket status",
		"ticket issue type",
		"ticket created",
	}

	commentColumns = []string{
		"ticket customer",
		"ticket number",
		"ticket subject",
		"ticket comment",
		"comment contact",
		"comment created",
	}
)

// LoadTickets reads the tickets CSV at path.
func LoadTickets(path string, log *logrus.Entry) ([]TicketRow, error) {
	records, err := loadCSV(path, ticketColumns, log)
	if err != nil {
		return nil, err
	}

	rows := make([]TicketRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, TicketRow{
			Customer:     rec["ticket customer"],
			Number:       rec["ticket number"],
			Subject:      rec["ticket subject"],
			Tech:         rec["tech"],
			InitialIssue: rec["ticket initial issue"],
			Status:       rec["ticket status"],
			IssueType:    rec["ticket issue type"],
			Created:      rec["ticket created"],
			Contact:      rec["ticket contact"],
			Priority:     rec["ticket priority"],
		})
	}

	log.Infof("loaded %d tickets from %s", len(rows), path)
	return rows, nil
}

// LoadComments reads the comments CSV at path.
func LoadComments(path string, log *logrus.Entry) ([]CommentRow, error) {
	records, err := loadCSV(path, commentColumns, log)
	if err != nil {
		return nil, err
	}

	rows := make([]CommentRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, CommentRow{
			Customer: rec["ticket customer"],
			Number:   rec["ticket number"],
			Subject:  rec["ticket subject"],
			Body:     rec["ticket comment"],
			Contact:  rec["comment contact"],
			Created:  rec["comment created"],
		})
	}

	log.Infof("loaded %d comments from %s", len(rows), path)
	return rows, nil
}

// loadCSV reads path into header-keyed records, validating that every
// required column is present in the header.
func loadCSV(path string, required []string, log *logrus.Entry) ([]map[string]string, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header from %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns in %s: %s", path, strings.Join(missing, ", "))
	}

	var records []map[string]string
	for rowNum := 1; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d of %s: %w", rowNum, path, err)
		}

		rec := make(map[string]string, len(header))
		for col, i := range index {
			if i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			}
		}

		for _, col := range required {
			if rec[col] == "" {
				log.Warnf("row %d: missing value for required column %q", rowNum, col)
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
