package reconcile

import (
	"context"
	"errors"

	"github.com/msptools/syncrosync/internal/csvimport"
	"github.com/msptools/syncrosync/internal/mapping"
	"github.com/msptools/syncrosync/internal/syncro"
)

// ImportTickets ingests ticket rows from a CSV export into the
// destination tenant. Per ticket the flow is map, then skip (duplicate by
// number) or create; a mapping failure (bad date, unusable number) fails
// that single row and the batch continues.
func (e *Engine) ImportTickets(ctx context.Context, rows []csvimport.TicketRow) Result {
	var res Result

	for i, row := range rows {
		log := e.Log.WithField("row", i+1)

		number := mapping.CleanTicketNumber(row.Number)
		if number == "" {
			log.Errorf("ticket number %q has no digits, skipping row", row.Number)
			res.TicketsFailed++
			continue
		}

		createdAt, err := mapping.NormalizeCreatedDate(row.Created, e.Loc)
		if err != nil {
			log.WithError(err).Errorf("cannot map created date for ticket %s", number)
			res.TicketsFailed++
			continue
		}

		customerID := e.Mapper.CustomerID(row.Customer)
		techID := e.Mapper.TechnicianID(row.Tech)

		var contactID *int64
		if customerID != nil {
			contactID = e.Mapper.ContactID(*customerID, row.Contact)
		}

		payload := &syncro.TicketPayload{
			CustomerID:         customerID,
			Number:             number,
			Subject:            row.Subject,
			UserID:             techID,
			ContactID:          contactID,
			Status:             row.Status,
			Priority:           e.Mapper.Priority(row.Priority),
			ProblemType:        e.Mapper.IssueType(row.IssueType),
			CreatedAt:          createdAt,
			CommentsAttributes: e.Mapper.InitialIssueComments(row.InitialIssue, row.Contact),
		}

		if e.DryRun {
			log.Infof("[dry-run] would create ticket %s %q", number, row.Subject)
			res.TicketsMissing++
			continue
		}

		created, err := e.Writer.CreateTicket(ctx, payload)
		switch {
		case created != nil:
			res.TicketsCreated++
		case errors.Is(err, syncro.ErrDuplicate):
			res.TicketsSkipped++
		default:
			res.TicketsFailed++
		}
	}

	return res
}

// ImportComments ingests comment rows from a CSV export, deduplicating by
// exact body equality under the resolved ticket. A comment whose ticket
// number cannot be found downstream is skipped with a warning, not
// treated as a failure.
func (e *Engine) ImportComments(ctx context.Context, rows []csvimport.CommentRow) Result {
	var res Result

	for i, row := range rows {
		log := e.Log.WithField("row", i+1)

		number := mapping.CleanTicketNumber(row.Number)
		if number == "" {
			log.Errorf("ticket number %q has no digits, skipping row", row.Number)
			res.CommentsFailed++
			continue
		}

		createdAt, err := mapping.NormalizeCreatedDate(row.Created, e.Loc)
		if err != nil {
			log.WithError(err).Errorf("cannot map created date for comment on ticket %s", number)
			res.CommentsFailed++
			continue
		}

		payload := &syncro.CommentPayload{
			TicketNumber: number,
			Subject:      "API Import",
			Body:         row.Body,
			Tech:         row.Contact,
			Hidden:       true,
			DoNotEmail:   true,
			CreatedAt:    createdAt,
		}

		if e.DryRun {
			log.Infof("[dry-run] would create comment on ticket %s", number)
			continue
		}

		created, err := e.Writer.CreateComment(ctx, payload)
		switch {
		case created != nil:
			res.CommentsCreated++
		case errors.Is(err, syncro.ErrDuplicate), errors.Is(err, syncro.ErrNotFound):
			res.CommentsSkipped++
		default:
			res.CommentsFailed++
		}
	}

	return res
}
