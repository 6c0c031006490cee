package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contract binds a client to a price; an event can only follow a signed one.
type Contract struct {
	ID          uuid.UUID
	ClientID    int64
	ClientName  string
	ContactID   *int64
	ContactName string
	Price       float64
	Balance     float64
	Signed      bool
	Created     time.Time
	Updated     time.Time
}
