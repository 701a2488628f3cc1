package syncro

import (
	"context"
	"encoding/json"
	"fmt"
)

// CreateCustomer issues POST /customers and returns the created record.
func (c *Client) CreateCustomer(ctx context.Context, payload *CustomerPayload) (*Customer, error) {
	body, err := c.post(ctx, "/customers", payload)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Customer Customer `json:"customer"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse created customer: %w", err)
	}
	return &envelope.Customer, nil
}

// CreateContact issues POST /contacts and returns the created record.
func (c *Client) CreateContact(ctx context.Context, payload *ContactPayload) (*Contact, error) {
	body, err := c.post(ctx, "/contacts", payload)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Contact Contact `json:"contact"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse created contact: %w", err)
	}
	return &envelope.Contact, nil
}

// CreateTicket issues POST /tickets and returns the created record.
func (c *Client) CreateTicket(ctx context.Context, payload *TicketPayload) (*Ticket, error) {
	body, err := c.post(ctx, "/tickets", payload)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Ticket Ticket `json:"ticket"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse created ticket: %w", err)
	}
	return &envelope.Ticket, nil
}

// CreateTicketComment issues POST /tickets/{id}/comment.
func (c *Client) CreateTicketComment(ctx context.Context, ticketID int64, payload *CommentPayload) (*Comment, error) {
	body, err := c.post(ctx, fmt.Sprintf("/tickets/%d/comment", ticketID), payload)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Comment Comment `json:"comment"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse created comment: %w", err)
	}
	return &envelope.Comment, nil
}
