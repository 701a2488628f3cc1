package syncro

import "encoding/json"

// Customer represents a Syncro customer record.
type Customer struct {
	ID           int64  `json:"id"`
	BusinessName string `json:"business_name"`
	FirstName    string `json:"firstname,omitempty"`
	LastName     string `json:"lastname,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// Contact represents a contact belonging to a customer.
type Contact struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Technician represents a Syncro user (tech) that tickets can be assigned to.
type Technician struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Ticket represents a Syncro ticket. Number is json.Number because the API
// returns it as an integer while CSV exports carry it as a string.
type Ticket struct {
	ID                       int64       `json:"id"`
	Number                   json.Number `json:"number"`
	Subject                  string      `json:"subject"`
	Status                   string      `json:"status"`
	Priority                 string      `json:"priority,omitempty"`
	ProblemType              string      `json:"problem_type,omitempty"`
	CustomerID               int64       `json:"customer_id"`
	CustomerBusinessThenName string      `json:"customer_business_then_name,omitempty"`
	CreatedAt                string      `json:"created_at,omitempty"`
	ResolvedAt               string      `json:"resolved_at,omitempty"`
	Comments                 []Comment   `json:"comments,omitempty"`
}

// Comment represents one comment on a ticket.
type Comment struct {
	ID         int64  `json:"id,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Body       string `json:"body"`
	Tech       string `json:"tech,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
	DoNotEmail bool   `json:"do_not_email,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// CustomerPayload is the create body for POST /customers.
type CustomerPayload struct {
	BusinessName string `json:"business_name"`
	FirstName    string `json:"firstname,omitempty"`
	LastName     string `json:"lastname,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// ContactPayload is the create body for POST /contacts.
type ContactPayload struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// TicketPayload is the create body for POST /tickets. Optional fields are
// pointers so a failed mapping is omitted from the JSON body entirely
// rather than sent as an empty value.
type TicketPayload struct {
	CustomerID         *int64    `json:"customer_id,omitempty"`
	Number             string    `json:"number,omitempty"`
	Subject            string    `json:"subject"`
	UserID             *int64    `json:"user_id,omitempty"`
	ContactID          *int64    `json:"contact_id,omitempty"`
	Status             string    `json:"status,omitempty"`
	Priority           *string   `json:"priority,omitempty"`
	ProblemType        *string   `json:"problem_type,omitempty"`
	CreatedAt          string    `json:"created_at,omitempty"`
	CommentsAttributes []Comment `json:"comments_attributes,omitempty"`
}

// CommentPayload is the create body for POST /tickets/{id}/comment.
// TicketNumber is used for the pre-create lookup and is stripped from the
// wire body (the endpoint carries the resolved ticket id in its path).
type CommentPayload struct {
	TicketNumber string `json:"-"`
	Subject      string `json:"subject,omitempty"`
	Body         string `json:"body"`
	Tech         string `json:"tech,omitempty"`
	Hidden       bool   `json:"hidden,omitempty"`
	DoNotEmail   bool   `json:"do_not_email,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// pageMeta is the pagination block Syncro returns alongside collections.
// Depending on the endpoint it reports either page/total_pages or a
// next_page field; both shapes are honored by the fetch loop.
type pageMeta struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	NextPage   *int  `json:"next_page"`
	TotalCount int64 `json:"total_entries,omitempty"`
}

// hasNext reports whether the service advertises a further page.
func (m pageMeta) hasNext() bool {
	if m.NextPage != nil && *m.NextPage > 0 {
		return true
	}
	return m.TotalPages > 0 && m.Page > 0 && m.Page < m.TotalPages
}
