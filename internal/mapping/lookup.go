package mapping

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/msptools/syncrosync/internal/refcache"
)

const (
	// DefaultFuzzyCutoff is the similarity a contact candidate must clear
	// to win the fuzzy tier.
	DefaultFuzzyCutoff = 0.4

	// minSimilarity is the floor for the best-score tier. Below this a
	// candidate is noise ("zzz" against real names) and the lookup falls
	// through to substring matching.
	minSimilarity = 0.25
)

// Mapper resolves source field values against one tenant's snapshot.
type Mapper struct {
	Snap        *refcache.Snapshot
	Log         *logrus.Entry
	FuzzyCutoff float64
}

// New creates a Mapper with the default fuzzy cutoff.
func New(snap *refcache.Snapshot, log *logrus.Entry) *Mapper {
	return &Mapper{Snap: snap, Log: log, FuzzyCutoff: DefaultFuzzyCutoff}
}

// CustomerID resolves a customer business name to its ID by exact
// normalized match. Returns nil when no customer matches.
func (m *Mapper) CustomerID(name string) *int64 {
	want := NormalizeName(name)
	if want == "" {
		m.Log.Warn("customer name is empty, cannot resolve")
		return nil
	}
	for _, c := range m.Snap.Customers {
		if NormalizeName(c.BusinessName) == want {
			id := c.ID
			m.Log.Infof("customer %q matched %q (id %d)", name, c.BusinessName, id)
			return &id
		}
	}
	m.Log.Warnf("customer not found: %s", name)
	return nil
}

// TechnicianID resolves a tech name to its user ID by exact normalized
// match. Returns nil when no tech matches.
func (m *Mapper) TechnicianID(name string) *int64 {
	want := NormalizeName(name)
	if want == "" {
		return nil
	}
	for _, t := range m.Snap.Techs {
		if NormalizeName(t.Name) == want {
			id := t.ID
			m.Log.Infof("tech %q matched %q (id %d)", name, t.Name, id)
			return &id
		}
	}
	m.Log.Warnf("technician not found: %s", name)
	return nil
}

// ContactID resolves a contact name within one customer. Tiers, first hit
// wins: exact normalized match, fuzzy match above the cutoff, best score
// above the minimum floor, substring containment. A customer with zero
// contacts short-circuits to nil.
func (m *Mapper) ContactID(customerID int64, name string) *int64 {
	if strings.TrimSpace(name) == "" {
		m.Log.Warnf("contact name missing for customer %d", customerID)
		return nil
	}

	candidates := m.Snap.ContactsForCustomer(customerID)
	if len(candidates) == 0 {
		m.Log.Warnf("no contacts found for customer %d", customerID)
		return nil
	}

	query := NormalizeName(name)

	for _, c := range candidates {
		if NormalizeName(c.Name) == query {
			id := c.ID
			m.Log.Infof("contact %q matched %q exactly (id %d)", name, c.Name, id)
			return &id
		}
	}

	cutoff := m.FuzzyCutoff
	if cutoff <= 0 {
		cutoff = DefaultFuzzyCutoff
	}

	bestIdx, bestScore := -1, 0.0
	for i, c := range candidates {
		score := similarity(query, NormalizeName(c.Name))
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx >= 0 && bestScore >= cutoff {
		id := candidates[bestIdx].ID
		m.Log.Infof("contact %q fuzzy-matched %q (score %.2f, id %d)", name, candidates[bestIdx].Name, bestScore, id)
		return &id
	}

	if bestIdx >= 0 && bestScore >= minSimilarity {
		id := candidates[bestIdx].ID
		m.Log.Infof("contact %q best-scored %q (score %.2f, id %d)", name, candidates[bestIdx].Name, bestScore, id)
		return &id
	}

	for _, c := range candidates {
		if strings.Contains(NormalizeName(c.Name), query) {
			id := c.ID
			m.Log.Infof("contact %q substring-matched %q (id %d)", name, c.Name, id)
			return &id
		}
	}

	m.Log.Warnf("no close or substring match for contact %q under customer %d", name, customerID)
	return nil
}

// IssueType resolves an issue type by exact case-insensitive match against
// the tenant's configured problem types. No fuzzy fallback.
func (m *Mapper) IssueType(issueType string) *string {
	if len(m.Snap.IssueTypes) == 0 {
		m.Log.Warn("no issue types configured in tenant settings")
		return nil
	}
	want := NormalizeName(issueType)
	for _, it := range m.Snap.IssueTypes {
		if NormalizeName(it) == want {
			matched := it
			m.Log.Infof("issue type %q matched %q", issueType, matched)
			return &matched
		}
	}
	m.Log.Warnf("no match for issue type: %s", issueType)
	return nil
}

// priorityMap is the fixed Syncro priority enumeration.
var priorityMap = map[string]string{
	"urgent": "0 Urgent",
	"high":   "1 High",
	"normal": "2 Normal",
	"low":    "3 Low",
}

// Priority maps a free-text priority word onto the fixed enumeration.
// Missing input defaults to "normal" before the lookup; an unrecognized
// word yields nil so unmappable data surfaces in the log instead of being
// silently guessed at.
func (m *Mapper) Priority(priority string) *string {
	if strings.TrimSpace(priority) == "" {
		m.Log.Warn("priority missing, defaulting to normal")
		priority = "normal"
	}
	if mapped, ok := priorityMap[NormalizeName(priority)]; ok {
		return &mapped
	}
	m.Log.Warnf("no match for priority: %s", priority)
	return nil
}

// similarity is a normalized Levenshtein ratio in [0,1]: 1 for identical
// strings, 0 for nothing in common.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
