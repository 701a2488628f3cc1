// Package reconcile diffs entity collections between a source and a
// destination tenant (or between a CSV export and a tenant) and drives
// creation of whatever the destination is missing. Identity is a
// normalized key, never a numeric ID: IDs differ between tenants.
package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/msptools/syncrosync/internal/mapping"
	"github.com/msptools/syncrosync/internal/syncro"
	"github.com/msptools/syncrosync/internal/writer"
)

const (
	// placeholderPriority is the fixed priority stamped on every ticket
	// created by the tenant-to-tenant path.
	placeholderPriority = "2 Normal"

	// fallbackStatus is substituted when the source ticket has no status.
	fallbackStatus = "New"
)

// SourceAPI is the read surface the engine needs from the source tenant.
type SourceAPI interface {
	Customers(ctx context.Context) ([]syncro.Customer, error)
	TicketsForCustomer(ctx context.Context, customerID int64, sinceUpdated string) ([]syncro.Ticket, error)
}

// DestAPI is the surface the engine needs from the destination tenant for
// the nested ticket diff. Customer creation goes through the Writer so
// the duplicate check applies.
type DestAPI interface {
	Customers(ctx context.Context) ([]syncro.Customer, error)
	TicketsForCustomer(ctx context.Context, customerID int64, sinceUpdated string) ([]syncro.Ticket, error)
	CreateTicket(ctx context.Context, payload *syncro.TicketPayload) (*syncro.Ticket, error)
	CreateTicketComment(ctx context.Context, ticketID int64, payload *syncro.CommentPayload) (*syncro.Comment, error)
}

// Engine drives one reconciliation run. Execution is sequential and
// blocking throughout; the only scheduling discipline is the client's
// fixed pacing between calls.
type Engine struct {
	Source SourceAPI
	Dest   DestAPI
	Writer *writer.Writer
	Mapper *mapping.Mapper
	Log    *logrus.Entry

	// DryRun computes and reports the missing sets without writing.
	DryRun bool

	// Since limits the source ticket fetch to tickets updated after this
	// instant (ISO-8601). Empty fetches everything.
	Since string

	// Loc is the timezone CSV dates are localized to.
	Loc *time.Location
}

// Customers diffs the two customer collections by normalized business
// name and creates every missing customer in the destination. Errors
// creating one customer are logged and do not abort the batch. The
// returned destination list includes records created during this call so
// the ticket pass can find them by name.
func (e *Engine) Customers(ctx context.Context) (source, dest []syncro.Customer, res Result, err error) {
	source, err = e.Source.Customers(ctx)
	if err != nil {
		return nil, nil, res, err
	}
	e.Log.Infof("source customers: %d", len(source))

	dest, err = e.Dest.Customers(ctx)
	if err != nil {
		return nil, nil, res, err
	}
	e.Log.Infof("destination customers: %d", len(dest))

	destKeys := make(map[string]struct{}, len(dest))
	for _, c := range dest {
		destKeys[mapping.CustomerKey(c.BusinessName)] = struct{}{}
	}

	var missing []syncro.Customer
	for _, c := range source {
		if _, ok := destKeys[mapping.CustomerKey(c.BusinessName)]; !ok {
			missing = append(missing, c)
		}
	}
	res.CustomersMissing = len(missing)
	e.Log.Warnf("missing customers to be created: %d", len(missing))

	if e.DryRun {
		for _, c := range missing {
			e.Log.Infof("[dry-run] would create customer %q", c.BusinessName)
		}
		return source, dest, res, nil
	}

	for _, c := range missing {
		created, err := e.Writer.CreateCustomer(ctx, &syncro.CustomerPayload{BusinessName: c.BusinessName})
		switch {
		case created != nil:
			res.CustomersCreated++
			dest = append(dest, *created)
		case errors.Is(err, syncro.ErrDuplicate):
			res.CustomersSkipped++
		default:
			res.CustomersFailed++
		}
	}

	return source, dest, res, nil
}

// Tickets runs the per-parent nested diff: for each source customer found
// by name in the destination, both sides' tickets for that customer are
// fetched and every source ticket whose subject is absent from the
// destination's set is created, replaying its comments. One ticket
// failing never aborts the batch.
func (e *Engine) Tickets(ctx context.Context, source, dest []syncro.Customer) Result {
	var res Result

	destByKey := make(map[string]syncro.Customer, len(dest))
	for _, c := range dest {
		destByKey[mapping.CustomerKey(c.BusinessName)] = c
	}

	for _, srcCust := range source {
		log := e.Log.WithField("customer", srcCust.BusinessName)

		destCust, ok := destByKey[mapping.CustomerKey(srcCust.BusinessName)]
		if !ok {
			log.Warn("customer not found in destination, skipping its tickets")
			continue
		}

		destTickets, err := e.Dest.TicketsForCustomer(ctx, destCust.ID, "")
		if err != nil {
			log.WithError(err).Error("failed to fetch destination tickets")
			res.TicketsFailed++
			continue
		}

		srcTickets, err := e.Source.TicketsForCustomer(ctx, srcCust.ID, e.Since)
		if err != nil {
			log.WithError(err).Error("failed to fetch source tickets")
			res.TicketsFailed++
			continue
		}
		log.Infof("tickets: %d in source, %d in destination", len(srcTickets), len(destTickets))

		destSubjects := make(map[string]struct{}, len(destTickets))
		for _, t := range destTickets {
			destSubjects[mapping.NormalizeName(t.Subject)] = struct{}{}
		}

		for _, st := range srcTickets {
			if _, exists := destSubjects[mapping.NormalizeName(st.Subject)]; exists {
				log.Infof("ticket %q already exists in destination, skipping", st.Subject)
				res.TicketsSkipped++
				continue
			}
			res.TicketsMissing++

			if e.DryRun {
				log.Infof("[dry-run] would create ticket %q with %d comments", st.Subject, len(st.Comments))
				continue
			}

			r := e.createDestTicket(ctx, log, destCust.ID, st)
			res.Merge(r)
		}
	}

	return res
}

// createDestTicket creates one missing ticket under the matched
// destination customer and replays its comments as separate writes.
func (e *Engine) createDestTicket(ctx context.Context, log *logrus.Entry, destCustomerID int64, st syncro.Ticket) Result {
	var res Result

	status := st.Status
	if status == "" {
		status = fallbackStatus
	}
	priority := placeholderPriority

	payload := &syncro.TicketPayload{
		CustomerID: &destCustomerID,
		Subject:    st.Subject,
		Status:     status,
		CreatedAt:  st.CreatedAt,
		Priority:   &priority,
	}

	created, err := e.Dest.CreateTicket(ctx, payload)
	if err != nil {
		log.WithError(err).Errorf("failed to create ticket %q", st.Subject)
		res.TicketsFailed++
		return res
	}
	res.TicketsCreated++
	log.Infof("created ticket %q (id %d)", st.Subject, created.ID)

	for _, comment := range st.Comments {
		subject := comment.Subject
		if subject == "" {
			subject = "Imported Comment"
		}
		tech := comment.Tech
		if tech == "" {
			tech = "None"
		}

		_, err := e.Dest.CreateTicketComment(ctx, created.ID, &syncro.CommentPayload{
			Subject:    subject,
			Body:       comment.Body,
			Tech:       tech,
			Hidden:     comment.Hidden,
			DoNotEmail: comment.DoNotEmail,
			CreatedAt:  comment.CreatedAt,
		})
		if err != nil {
			log.WithError(err).Errorf("failed to replay comment on ticket %q", st.Subject)
			res.CommentsFailed++
			continue
		}
		res.CommentsCreated++
	}

	return res
}
