// Package writer issues create calls against the destination tenant,
// performing a duplicate check immediately before each write. The check
// and the write are separate operations, not atomic: this is safe only
// for the single-process, sequential runs this tool performs.
package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/msptools/syncrosync/internal/mapping"
	"github.com/msptools/syncrosync/internal/refcache"
	"github.com/msptools/syncrosync/internal/syncro"
)

// API is the slice of the tenant client the writer needs.
// *syncro.Client satisfies it.
type API interface {
	CreateCustomer(ctx context.Context, payload *syncro.CustomerPayload) (*syncro.Customer, error)
	CreateContact(ctx context.Context, payload *syncro.ContactPayload) (*syncro.Contact, error)
	CreateTicket(ctx context.Context, payload *syncro.TicketPayload) (*syncro.Ticket, error)
	CreateTicketComment(ctx context.Context, ticketID int64, payload *syncro.CommentPayload) (*syncro.Comment, error)
	TicketByNumber(ctx context.Context, number string) (*syncro.Ticket, error)
}

// Writer creates entities in the destination tenant.
type Writer struct {
	api  API
	snap *refcache.Snapshot
	log  *logrus.Entry

	// Names created during this run. The snapshot is only refreshed once
	// per run, so without these a second create of the same name would
	// slip past the duplicate check.
	createdCustomers map[string]struct{}
	createdContacts  map[string]struct{}
}

// New creates a Writer backed by the given tenant API and snapshot.
func New(api API, snap *refcache.Snapshot, log *logrus.Entry) *Writer {
	return &Writer{
		api:              api,
		snap:             snap,
		log:              log,
		createdCustomers: make(map[string]struct{}),
		createdContacts:  make(map[string]struct{}),
	}
}

// CreateCustomer creates a customer unless one with the same normalized
// business name already exists. A duplicate returns a nil record and an
// ErrDuplicate-kind error; a failed write returns the wrapped transport
// error. Either way there is no created record.
func (w *Writer) CreateCustomer(ctx context.Context, payload *syncro.CustomerPayload) (*syncro.Customer, error) {
	key := mapping.CustomerKey(payload.BusinessName)
	if w.customerExists(key) {
		w.log.Warnf("duplicate customer found: %s", payload.BusinessName)
		return nil, fmt.Errorf("customer %q: %w", payload.BusinessName, syncro.ErrDuplicate)
	}

	rec, err := w.api.CreateCustomer(ctx, payload)
	if err != nil {
		w.log.WithError(err).Errorf("failed to create customer %q", payload.BusinessName)
		return nil, err
	}

	w.createdCustomers[key] = struct{}{}
	w.log.Infof("created customer %q (id %d)", rec.BusinessName, rec.ID)
	return rec, nil
}

// CreateContact creates a contact unless one with the same normalized
// name already exists under the same customer.
func (w *Writer) CreateContact(ctx context.Context, payload *syncro.ContactPayload) (*syncro.Contact, error) {
	key := contactKey(payload.CustomerID, payload.Name)
	if w.contactExists(payload.CustomerID, payload.Name) {
		w.log.Warnf("duplicate contact %q under customer %d", payload.Name, payload.CustomerID)
		return nil, fmt.Errorf("contact %q: %w", payload.Name, syncro.ErrDuplicate)
	}

	rec, err := w.api.CreateContact(ctx, payload)
	if err != nil {
		w.log.WithError(err).Errorf("failed to create contact %q", payload.Name)
		return nil, err
	}

	w.createdContacts[key] = struct{}{}
	w.log.Infof("created contact %q (id %d)", rec.Name, rec.ID)
	return rec, nil
}

// CreateTicket creates a ticket unless its number is already taken in the
// destination. The payload must carry a non-empty cleaned number.
func (w *Writer) CreateTicket(ctx context.Context, payload *syncro.TicketPayload) (*syncro.Ticket, error) {
	if payload.Number == "" {
		w.log.Error("ticket number is missing from the payload")
		return nil, fmt.Errorf("ticket number missing: %w", syncro.ErrValidation)
	}

	existing, err := w.api.TicketByNumber(ctx, payload.Number)
	if err != nil && !errors.Is(err, syncro.ErrNotFound) {
		w.log.WithError(err).Errorf("failed to check for existing ticket %s", payload.Number)
		return nil, err
	}
	if existing != nil {
		w.log.Warnf("ticket number %q already taken, skipping creation", payload.Number)
		return nil, fmt.Errorf("ticket %s: %w", payload.Number, syncro.ErrDuplicate)
	}

	rec, err := w.api.CreateTicket(ctx, payload)
	if err != nil {
		w.log.WithError(err).Errorf("failed to create ticket %q", payload.Subject)
		return nil, err
	}

	w.log.Infof("created ticket %s %q (id %d)", rec.Number, rec.Subject, rec.ID)
	return rec, nil
}

// CreateComment resolves the destination ticket by number and creates the
// comment unless one with an identical body already exists on it. A
// missing ticket skips the comment (ErrNotFound), it does not fail the run.
func (w *Writer) CreateComment(ctx context.Context, payload *syncro.CommentPayload) (*syncro.Comment, error) {
	if payload.TicketNumber == "" {
		w.log.Error("ticket number is missing from the comment payload")
		return nil, fmt.Errorf("ticket number missing: %w", syncro.ErrValidation)
	}

	ticket, err := w.api.TicketByNumber(ctx, payload.TicketNumber)
	if err != nil {
		if errors.Is(err, syncro.ErrNotFound) {
			w.log.Warnf("ticket number %q not found, skipping comment", payload.TicketNumber)
		} else {
			w.log.WithError(err).Errorf("failed to look up ticket %s", payload.TicketNumber)
		}
		return nil, err
	}

	for _, existing := range ticket.Comments {
		if existing.Body == payload.Body {
			w.log.Warnf("comment already exists on ticket %s, skipping", payload.TicketNumber)
			return nil, fmt.Errorf("comment on ticket %s: %w", payload.TicketNumber, syncro.ErrDuplicate)
		}
	}

	rec, err := w.api.CreateTicketComment(ctx, ticket.ID, payload)
	if err != nil {
		w.log.WithError(err).Errorf("failed to create comment on ticket %s", payload.TicketNumber)
		return nil, err
	}

	w.log.Infof("created comment on ticket %s", payload.TicketNumber)
	return rec, nil
}

func (w *Writer) customerExists(key string) bool {
	if _, ok := w.createdCustomers[key]; ok {
		return true
	}
	for _, c := range w.snap.Customers {
		if mapping.CustomerKey(c.BusinessName) == key {
			return true
		}
	}
	return false
}

func (w *Writer) contactExists(customerID int64, name string) bool {
	if _, ok := w.createdContacts[contactKey(customerID, name)]; ok {
		return true
	}
	want := mapping.NormalizeName(name)
	for _, c := range w.snap.Contacts {
		if customerID != 0 && c.CustomerID != customerID {
			continue
		}
		if mapping.NormalizeName(c.Name) == want {
			return true
		}
	}
	return false
}

func contactKey(customerID int64, name string) string {
	return fmt.Sprintf("%d\x00%s", customerID, mapping.NormalizeName(name))
}
