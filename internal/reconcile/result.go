package reconcile

// Result tallies what a run did per entity kind. Per-item failures never
// abort a batch, so the tally is how a run surfaces partial failure.
type Result struct {
	CustomersMissing int
	CustomersCreated int
	CustomersSkipped int
	CustomersFailed  int

	TicketsMissing int
	TicketsCreated int
	TicketsSkipped int
	TicketsFailed  int

	CommentsCreated int
	CommentsSkipped int
	CommentsFailed  int
}

// Merge folds another result into this one.
func (r *Result) Merge(o Result) {
	r.CustomersMissing += o.CustomersMissing
	r.CustomersCreated += o.CustomersCreated
	r.CustomersSkipped += o.CustomersSkipped
	r.CustomersFailed += o.CustomersFailed
	r.TicketsMissing += o.TicketsMissing
	r.TicketsCreated += o.TicketsCreated
	r.TicketsSkipped += o.TicketsSkipped
	r.TicketsFailed += o.TicketsFailed
	r.CommentsCreated += o.CommentsCreated
	r.CommentsSkipped += o.CommentsSkipped
	r.CommentsFailed += o.CommentsFailed
}

// Failures reports the total per-item failure count for the run.
func (r *Result) Failures() int {
	return r.CustomersFailed + r.TicketsFailed + r.CommentsFailed
}
