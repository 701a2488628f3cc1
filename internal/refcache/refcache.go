// Package refcache holds the slowly-changing reference collections
// (techs, issue types, customers, contacts, ticket statuses) fetched from
// a tenant at most once per run, with a best-effort on-disk copy reused by
// later runs.
//
// The cache is built by a single writer at first use and read-only
// afterwards; a mutex guards Get so that discipline holds even if a caller
// introduces goroutines later.
package refcache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/msptools/syncrosync/internal/syncro"
)

// Snapshot is the combined reference data for one tenant. It is valid for
// the lifetime of one run; callers must tolerate stale entries.
type Snapshot struct {
	Techs      []syncro.Technician `json:"techs"`
	IssueTypes []string            `json:"issue_types"`
	Customers  []syncro.Customer   `json:"customers"`
	Contacts   []syncro.Contact    `json:"contacts"`
	Statuses   []string            `json:"statuses"`
}

// ContactsForCustomer returns the cached contacts belonging to one customer.
func (s *Snapshot) ContactsForCustomer(customerID int64) []syncro.Contact {
	var out []syncro.Contact
	for _, c := range s.Contacts {
		if c.CustomerID == customerID {
			out = append(out, c)
		}
	}
	return out
}

// Fetcher is the slice of the tenant API the cache needs to populate
// itself. *syncro.Client satisfies it.
type Fetcher interface {
	Technicians(ctx context.Context) ([]syncro.Technician, error)
	IssueTypes(ctx context.Context) ([]string, error)
	Customers(ctx context.Context) ([]syncro.Customer, error)
	Contacts(ctx context.Context) ([]syncro.Contact, error)
	TicketStatuses(ctx context.Context) ([]string, error)
}

// Cache memoizes one tenant's Snapshot for the duration of a run.
type Cache struct {
	path    string
	fetcher Fetcher
	log     *logrus.Entry

	mu   sync.Mutex
	snap *Snapshot
}

// New creates a cache persisting to path. The file is read and written
// wholesale; there is no incremental update.
func New(path string, fetcher Fetcher, log *logrus.Entry) *Cache {
	return &Cache{path: path, fetcher: fetcher, log: log}
}

// Get returns the snapshot, in order of precedence: the in-memory copy
// from a prior call this run, the on-disk file, or a fresh fetch of all
// five reference collections (which is then persisted). forceRefresh
// deletes the on-disk file and discards the in-memory copy first, so at
// most one fetch set happens per run unless a refresh is requested.
func (c *Cache) Get(ctx context.Context, forceRefresh bool) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if forceRefresh {
		c.snap = nil
		if err := c.removeFile(); err != nil {
			return nil, err
		}
	}

	if c.snap != nil {
		c.log.Debug("using in-memory snapshot")
		return c.snap, nil
	}

	if snap := c.loadFile(); snap != nil {
		c.snap = snap
		return c.snap, nil
	}

	snap, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.snap = snap

	// Persistence is best-effort: the run continues on the in-memory
	// snapshot if the write fails.
	if err := c.saveFile(snap); err != nil {
		c.log.WithError(err).Warnf("failed to persist snapshot to %s", c.path)
	}

	return c.snap, nil
}

// Invalidate discards the in-memory snapshot and deletes the disk file.
func (c *Cache) Invalidate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
	return c.removeFile()
}

func (c *Cache) removeFile() error {
	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		return nil
	}
	c.log.Infof("deleting snapshot file %s", c.path)
	if err := os.Remove(c.path); err != nil {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// loadFile reads the persisted snapshot. A missing, corrupt, or
// unparseable file is a cache miss, never fatal: a process killed
// mid-write can leave a truncated file behind.
func (c *Cache) loadFile() *Snapshot {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.WithError(err).Warnf("failed to read snapshot file %s", c.path)
		}
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.log.WithError(err).Warnf("snapshot file %s is corrupt, refetching", c.path)
		return nil
	}

	c.log.Infof("loaded snapshot from %s (%d customers, %d contacts, %d techs)",
		c.path, len(snap.Customers), len(snap.Contacts), len(snap.Techs))
	return &snap
}

// saveFile writes the snapshot through a temp file and renames it into
// place so a crash never leaves a half-written file at the final path.
func (c *Cache) saveFile(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}

	c.log.Infof("saved snapshot to %s", c.path)
	return nil
}

// fetch pulls all five reference collections from the tenant. Any
// request-level failure aborts the whole fetch; mappings that depend on
// the snapshot cannot proceed without it.
func (c *Cache) fetch(ctx context.Context) (*Snapshot, error) {
	c.log.Info("fetching reference data from tenant")

	techs, err := c.fetcher.Technicians(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching techs: %w", err)
	}
	issueTypes, err := c.fetcher.IssueTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching issue types: %w", err)
	}
	customers, err := c.fetcher.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching customers: %w", err)
	}
	contacts, err := c.fetcher.Contacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching contacts: %w", err)
	}
	statuses, err := c.fetcher.TicketStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching ticket statuses: %w", err)
	}

	c.log.Infof("fetched reference data: %d techs, %d issue types, %d customers, %d contacts, %d statuses",
		len(techs), len(issueTypes), len(customers), len(contacts), len(statuses))

	return &Snapshot{
		Techs:      techs,
		IssueTypes: issueTypes,
		Customers:  customers,
		Contacts:   contacts,
		Statuses:   statuses,
	}, nil
}
