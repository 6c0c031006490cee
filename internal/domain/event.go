package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is the service delivered under a signed contract.
type Event struct {
	ID          int64
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Attendees   int
	ContractID  uuid.UUID
	ContactID   *int64
	ContactName string
	Note        string
	Created     time.Time
	Updated     time.Time
}
