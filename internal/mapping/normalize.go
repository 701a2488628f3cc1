// Package mapping converts loosely-typed source fields (names, free-text
// dates, priority words) into values the target tenant schema accepts,
// looking candidates up in a reference snapshot. Lookup misses are
// absences (nil), logged, never errors; the one exception is date parsing,
// which fails hard because a ticket cannot be created without a valid
// creation time.
package mapping

import "strings"

// NormalizeName trims and case-folds a name for identity comparison. Two
// records whose normalized keys are equal are treated as the same
// real-world entity regardless of numeric ID differences between tenants.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CustomerKey derives the identity key for a customer record.
func CustomerKey(businessName string) string {
	return NormalizeName(businessName)
}

// TicketKey derives the identity key for a ticket: its subject scoped by
// the owning customer's business name.
func TicketKey(subject, customerName string) string {
	return NormalizeName(subject) + "\x00" + NormalizeName(customerName)
}

// CleanTicketNumber strips every non-digit character from a ticket number.
// An empty result is a valid (if degenerate) output, not an error; callers
// decide whether an empty number is usable.
func CleanTicketNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
