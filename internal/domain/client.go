package domain

import "time"

// Company is the organisation a client works for.
type Company struct {
	ID   int64
	Name string
}

// Client is a customer followed by a sales contact.
type Client struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     Company
	ContactID   *int64
	ContactName string
	Created     time.Time
	Updated     time.Time
}

// FullName joins first and last name.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
