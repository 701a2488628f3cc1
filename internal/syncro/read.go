package syncro

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Customers retrieves every customer in the tenant.
func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	return fetchAllPages[Customer](ctx, c, "/customers", "customers", nil)
}

// Contacts retrieves every contact in the tenant.
func (c *Client) Contacts(ctx context.Context) ([]Contact, error) {
	return fetchAllPages[Contact](ctx, c, "/contacts", "contacts", nil)
}

// ContactsForCustomer retrieves the contacts belonging to one customer.
func (c *Client) ContactsForCustomer(ctx context.Context, customerID int64) ([]Contact, error) {
	params := url.Values{}
	params.Set("customer_id", strconv.FormatInt(customerID, 10))
	return fetchAllPages[Contact](ctx, c, "/contacts", "contacts", params)
}

// Tickets retrieves every ticket in the tenant. An empty sinceUpdated
// fetches everything; otherwise the fetch is limited to tickets updated
// after that instant (incremental runs).
func (c *Client) Tickets(ctx context.Context, sinceUpdated string) ([]Ticket, error) {
	params := url.Values{}
	if sinceUpdated != "" {
		params.Set("since_updated_at", sinceUpdated)
	}
	return fetchAllPages[Ticket](ctx, c, "/tickets", "tickets", params)
}

// TicketsForCustomer retrieves the tickets belonging to one customer.
func (c *Client) TicketsForCustomer(ctx context.Context, customerID int64, sinceUpdated string) ([]Ticket, error) {
	params := url.Values{}
	params.Set("customer_id", strconv.FormatInt(customerID, 10))
	if sinceUpdated != "" {
		params.Set("since_updated_at", sinceUpdated)
	}
	return fetchAllPages[Ticket](ctx, c, "/tickets", "tickets", params)
}

// TicketByNumber looks a ticket up by its exact number. A lookup miss is
// reported as ErrNotFound so callers can distinguish "absent" from a
// transport failure.
func (c *Client) TicketByNumber(ctx context.Context, number string) (*Ticket, error) {
	params := url.Values{}
	params.Set("number", number)

	body, err := c.get(ctx, "/tickets", params)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Tickets []Ticket `json:"tickets"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse ticket lookup response: %w", err)
	}
	if len(envelope.Tickets) == 0 {
		return nil, fmt.Errorf("ticket number %q: %w", number, ErrNotFound)
	}
	return &envelope.Tickets[0], nil
}

// Technicians retrieves the tenant's users (techs).
func (c *Client) Technicians(ctx context.Context) ([]Technician, error) {
	return fetchAllPages[Technician](ctx, c, "/users", "users", nil)
}

// IssueTypes retrieves the configured ticket problem types from settings.
func (c *Client) IssueTypes(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/settings", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Ticket struct {
			ProblemTypes []string `json:"problem_types"`
		} `json:"ticket"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse settings response: %w", err)
	}
	return envelope.Ticket.ProblemTypes, nil
}

// TicketStatuses retrieves the configured ticket status list.
func (c *Client) TicketStatuses(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/tickets/settings", nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		StatusList []string `json:"ticket_status_list"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse ticket settings response: %w", err)
	}
	return envelope.StatusList, nil
}
