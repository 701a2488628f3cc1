package mapping

import (
	"github.com/msptools/syncrosync/internal/syncro"
)

// InitialIssueComments builds the hidden comment list carrying a ticket's
// initial issue text on creation. The contact falls back to the literal
// "None" when absent, matching what the tenant stores for unassigned
// comments.
func (m *Mapper) InitialIssueComments(initialIssue, contact string) []syncro.Comment {
	if initialIssue == "" {
		return nil
	}
	if contact == "" {
		m.Log.Warn("no contact provided, setting ticket comment tech to None")
		contact = "None"
	}
	return []syncro.Comment{
		{
			Subject:    "CSV Import",
			Body:       initialIssue,
			Hidden:     true,
			DoNotEmail: true,
			Tech:       contact,
		},
	}
}
