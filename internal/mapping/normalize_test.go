package mapping

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Acme Inc", "acme inc"},
		{"  ACME INC  ", "acme inc"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTicketKey(t *testing.T) {
	a := TicketKey("Printer Broken", "Acme Inc")
	b := TicketKey("  printer broken ", "ACME INC")
	if a != b {
		t.Errorf("equivalent keys differ: %q vs %q", a, b)
	}

	// Same subject under a different customer is a different ticket.
	c := TicketKey("Printer Broken", "Globex")
	if a == c {
		t.Error("keys for different customers collide")
	}
}

func TestCleanTicketNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"12345", "12345"},
		{"#12345", "12345"},
		{"TKT-00987", "00987"},
		{" 12 34 ", "1234"},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanTicketNumber(tt.input); got != tt.want {
			t.Errorf("CleanTicketNumber(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
