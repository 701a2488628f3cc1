package refcache

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/msptools/syncrosync/internal/syncro"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// fakeFetcher serves canned reference data and counts fetches.
type fakeFetcher struct {
	fetches int
	fail    bool
}

func (f *fakeFetcher) Technicians(ctx context.Context) ([]syncro.Technician, error) {
	f.fetches++
	if f.fail {
		return nil, errors.New("boom")
	}
	return []syncro.Technician{{ID: 1, Name: "Alice Smith"}}, nil
}

func (f *fakeFetcher) IssueTypes(ctx context.Context) ([]string, error) {
	return []string{"Remote Support"}, nil
}

func (f *fakeFetcher) Customers(ctx context.Context) ([]syncro.Customer, error) {
	return []syncro.Customer{{ID: 10, BusinessName: "Acme Inc"}}, nil
}

func (f *fakeFetcher) Contacts(ctx context.Context) ([]syncro.Contact, error) {
	return []syncro.Contact{{ID: 100, CustomerID: 10, Name: "Daniel Hedges"}}, nil
}

func (f *fakeFetcher) TicketStatuses(ctx context.Context) ([]string, error) {
	return []string{"New"}, nil
}

func cachePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "temp_data.json")
}

func TestGetFetchesOnceAndPersists(t *testing.T) {
	path := cachePath(t)
	fetcher := &fakeFetcher{}
	cache := New(path, fetcher, testLog())
	ctx := context.Background()

	snap, err := cache.Get(ctx, false)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(snap.Customers) != 1 || snap.Customers[0].BusinessName != "Acme Inc" {
		t.Errorf("snapshot customers = %+v", snap.Customers)
	}
	if fetcher.fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetcher.fetches)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("snapshot file not persisted: %v", err)
	}

	// Second Get reuses the in-memory snapshot.
	if _, err := cache.Get(ctx, false); err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if fetcher.fetches != 1 {
		t.Errorf("fetches after second Get = %d, want 1", fetcher.fetches)
	}
}

func TestGetLoadsFromDisk(t *testing.T) {
	path := cachePath(t)
	first := New(path, &fakeFetcher{}, testLog())
	if _, err := first.Get(context.Background(), false); err != nil {
		t.Fatalf("priming Get failed: %v", err)
	}

	// A fresh cache on the same path must not hit the API at all.
	fetcher := &fakeFetcher{}
	second := New(path, fetcher, testLog())
	snap, err := second.Get(context.Background(), false)
	if err != nil {
		t.Fatalf("Get from disk failed: %v", err)
	}
	if fetcher.fetches != 0 {
		t.Errorf("fetches = %d, want 0", fetcher.fetches)
	}
	if len(snap.Contacts) != 1 {
		t.Errorf("contacts = %+v", snap.Contacts)
	}
}

func TestCorruptFileIsACacheMiss(t *testing.T) {
	path := cachePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	fetcher := &fakeFetcher{}
	cache := New(path, fetcher, testLog())
	if _, err := cache.Get(context.Background(), false); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetcher.fetches != 1 {
		t.Errorf("fetches = %d, want 1 (corrupt file should refetch)", fetcher.fetches)
	}
}

func TestForceRefresh(t *testing.T) {
	path := cachePath(t)
	fetcher := &fakeFetcher{}
	cache := New(path, fetcher, testLog())
	ctx := context.Background()

	if _, err := cache.Get(ctx, false); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get(ctx, true); err != nil {
		t.Fatal(err)
	}
	if fetcher.fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetcher.fetches)
	}
}

func TestInvalidate(t *testing.T) {
	path := cachePath(t)
	cache := New(path, &fakeFetcher{}, testLog())
	if _, err := cache.Get(context.Background(), false); err != nil {
		t.Fatal(err)
	}

	if err := cache.Invalidate(); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("snapshot file still exists after Invalidate")
	}
}

func TestFetchErrorAborts(t *testing.T) {
	cache := New(cachePath(t), &fakeFetcher{fail: true}, testLog())
	if _, err := cache.Get(context.Background(), false); err == nil {
		t.Fatal("expected error when the fetch fails")
	}
}

func TestContactsForCustomer(t *testing.T) {
	snap := &Snapshot{
		Contacts: []syncro.Contact{
			{ID: 1, CustomerID: 10, Name: "A"},
			{ID: 2, CustomerID: 11, Name: "B"},
			{ID: 3, CustomerID: 10, Name: "C"},
		},
	}
	got := snap.ContactsForCustomer(10)
	if len(got) != 2 {
		t.Fatalf("got %d contacts, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("contacts = %+v", got)
	}
	if snap.ContactsForCustomer(99) != nil {
		t.Error("unknown customer should have no contacts")
	}
}
