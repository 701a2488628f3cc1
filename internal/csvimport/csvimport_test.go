package csvimport

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTickets(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"ticket customer,ticket number,ticket subject,tech,ticket initial issue,ticket status,ticket issue type,ticket created,ticket contact,ticket priority",
		`Acme Inc,#200,Printer broken,Alice Smith,It smokes,New,Remote Support,2024-12-15,Daniel Hedges,high`,
		`Globex, 300 ,Email down,Bob Jones,Cannot send,Resolved,Remote Support,12/15/2024,,`,
	}, "\n"))

	rows, err := LoadTickets(path, testLog())
	if err != nil {
		t.Fatalf("LoadTickets failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.Customer != "Acme Inc" || first.Number != "#200" || first.Subject != "Printer broken" {
		t.Errorf("first row = %+v", first)
	}
	if first.Contact != "Daniel Hedges" || first.Priority != "high" {
		t.Errorf("optional columns not read: %+v", first)
	}

	// Cells are trimmed, blank optional cells come through empty.
	second := rows[1]
	if second.Number != "300" {
		t.Errorf("Number = %q, want trimmed %q", second.Number, "300")
	}
	if second.Contact != "" || second.Priority != "" {
		t.Errorf("blank cells = %+v", second)
	}
}

func TestLoadTicketsWithoutOptionalColumns(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"ticket customer,ticket number,ticket subject,tech,ticket initial issue,ticket status,ticket issue type,ticket created",
		`Acme Inc,200,Printer broken,Alice Smith,It smokes,New,Remote Support,2024-12-15`,
	}, "\n"))

	rows, err := LoadTickets(path, testLog())
	if err != nil {
		t.Fatalf("LoadTickets failed: %v", err)
	}
	if rows[0].Contact != "" || rows[0].Priority != "" {
		t.Errorf("absent optional columns should be empty: %+v", rows[0])
	}
}

func TestLoadTicketsMissingColumn(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"ticket customer,ticket subject,tech,ticket initial issue,ticket status,ticket issue type,ticket created",
		`Acme Inc,Printer broken,Alice Smith,It smokes,New,Remote Support,2024-12-15`,
	}, "\n"))

	_, err := LoadTickets(path, testLog())
	if err == nil {
		t.Fatal("expected error for a missing required column")
	}
	if !strings.Contains(err.Error(), "ticket number") {
		t.Errorf("error does not name the missing column: %v", err)
	}
}

func TestLoadTicketsBlankRequiredValue(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"ticket customer,ticket number,ticket subject,tech,ticket initial issue,ticket status,ticket issue type,ticket created",
		`Acme Inc,,Printer broken,Alice Smith,It smokes,New,Remote Support,2024-12-15`,
	}, "\n"))

	// A blank value is a per-row condition, never a load failure.
	rows, err := LoadTickets(path, testLog())
	if err != nil {
		t.Fatalf("LoadTickets failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Number != "" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestLoadTicketsMissingFile(t *testing.T) {
	_, err := LoadTickets(filepath.Join(t.TempDir(), "nope.csv"), testLog())
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestLoadComments(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"ticket customer,ticket number,ticket subject,ticket comment,comment contact,comment created",
		`Acme Inc,200,Printer broken,"Called the customer, no answer",Daniel Hedges,2024-12-15`,
	}, "\n"))

	rows, err := LoadComments(path, testLog())
	if err != nil {
		t.Fatalf("LoadComments failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Body != "Called the customer, no answer" {
		t.Errorf("Body = %q", rows[0].Body)
	}
	if rows[0].Contact != "Daniel Hedges" {
		t.Errorf("Contact = %q", rows[0].Contact)
	}
}

func TestLoadCommentsMissingColumn(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"ticket customer,ticket number,ticket subject,comment contact,comment created",
		`Acme Inc,200,Printer broken,Daniel Hedges,2024-12-15`,
	}, "\n"))

	_, err := LoadComments(path, testLog())
	if err == nil || !strings.Contains(err.Error(), "ticket comment") {
		t.Errorf("error = %v, want the missing column named", err)
	}
}
