package mapping

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/msptools/syncrosync/internal/refcache"
	"github.com/msptools/syncrosync/internal/syncro"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func testSnapshot() *refcache.Snapshot {
	return &refcache.Snapshot{
		Techs: []syncro.Technician{
			{ID: 1, Name: "Alice Smith"},
			{ID: 2, Name: "Bob Jones"},
		},
		IssueTypes: []string{"Remote Support", "Managed Services"},
		Customers: []syncro.Customer{
			{ID: 10, BusinessName: "Acme Inc"},
			{ID: 11, BusinessName: "Globex"},
		},
		Contacts: []syncro.Contact{
			{ID: 100, CustomerID: 10, Name: "Daniel Hedges"},
			{ID: 101, CustomerID: 10, Name: "Mary Johnson"},
			{ID: 102, CustomerID: 10, Name: "Christopher Alexander Brown III"},
			{ID: 103, CustomerID: 11, Name: "Pat Lee"},
		},
		Statuses: []string{"New", "In Progress", "Resolved"},
	}
}

func TestCustomerID(t *testing.T) {
	m := New(testSnapshot(), testLog())

	tests := []struct {
		name  string
		input string
		want  *int64
	}{
		{"exact", "Acme Inc", int64Ptr(10)},
		{"case and space insensitive", "  ACME INC ", int64Ptr(10)},
		{"unknown", "Unknown Co", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.CustomerID(tt.input)
			assertIDPtr(t, got, tt.want)
		})
	}
}

func TestTechnicianID(t *testing.T) {
	m := New(testSnapshot(), testLog())

	if got := m.TechnicianID("alice smith"); got == nil || *got != 1 {
		t.Errorf("TechnicianID(alice smith) = %v, want 1", got)
	}
	if got := m.TechnicianID("Nobody"); got != nil {
		t.Errorf("TechnicianID(Nobody) = %v, want nil", got)
	}
	if got := m.TechnicianID(""); got != nil {
		t.Errorf("TechnicianID(\"\") = %v, want nil", got)
	}
}

func TestContactIDTiers(t *testing.T) {
	m := New(testSnapshot(), testLog())

	tests := []struct {
		name     string
		customer int64
		input    string
		want     *int64
	}{
		{"exact match", 10, "Daniel Hedges", int64Ptr(100)},
		{"exact match ignores case", 10, "daniel hedges", int64Ptr(100)},
		{"close misspelling wins fuzzy tier", 10, "dan hedges", int64Ptr(100)},
		{"short substring falls through to containment", 10, "Brown", int64Ptr(102)},
		{"noise matches nothing", 10, "zzz", nil},
		{"empty name", 10, "", nil},
		{"customer with no contacts", 99, "Daniel Hedges", nil},
		{"scoped to the customer", 11, "Pat Lee", int64Ptr(103)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ContactID(tt.customer, tt.input)
			assertIDPtr(t, got, tt.want)
		})
	}
}

func TestIssueType(t *testing.T) {
	m := New(testSnapshot(), testLog())

	if got := m.IssueType("remote support"); got == nil || *got != "Remote Support" {
		t.Errorf("IssueType(remote support) = %v", got)
	}
	// No fuzzy fallback for issue types.
	if got := m.IssueType("remote"); got != nil {
		t.Errorf("IssueType(remote) = %v, want nil", *got)
	}
	empty := New(&refcache.Snapshot{}, testLog())
	if got := empty.IssueType("Remote Support"); got != nil {
		t.Errorf("IssueType with empty snapshot = %v, want nil", *got)
	}
}

func TestPriority(t *testing.T) {
	m := New(testSnapshot(), testLog())

	tests := []struct {
		input string
		want  string
		none  bool
	}{
		{input: "urgent", want: "0 Urgent"},
		{input: "High", want: "1 High"},
		{input: "normal", want: "2 Normal"},
		{input: "low", want: "3 Low"},
		{input: "", want: "2 Normal"}, // missing defaults to normal
		{input: "   ", want: "2 Normal"},
		{input: "critical", none: true}, // unknown word surfaces as nil
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := m.Priority(tt.input)
			if tt.none {
				if got != nil {
					t.Errorf("Priority(%q) = %q, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("Priority(%q) = %v, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"daniel hedges", "daniel hedges", 1, 1},
		{"dan hedges", "daniel hedges", 0.7, 0.85},
		{"zzz", "daniel hedges", 0, 0.1},
		{"", "", 1, 1},
	}
	for _, tt := range tests {
		got := similarity(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("similarity(%q, %q) = %.3f, want in [%.2f, %.2f]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}

func int64Ptr(v int64) *int64 { return &v }

func assertIDPtr(t *testing.T, got, want *int64) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("got id %d, want nil", *got)
	case want != nil && got == nil:
		t.Errorf("got nil, want id %d", *want)
	case want != nil && got != nil && *got != *want:
		t.Errorf("got id %d, want %d", *got, *want)
	}
}
