package models

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// transitions holds the full lifecycle table. Rejected and cancelled are
// terminal; nothing ever returns to pending.
var transitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusApproved:  true,
		StatusRejected:  true,
		StatusCancelled: true,
	},
	StatusApproved: {
		StatusCancelled: true,
	},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the booking still occupies its time slot.
// Only active bookings participate in conflict detection.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	OwnerID   string    `json:"owner_id"`
	Interval  Interval  `json:"interval"`
	Purpose   string    `json:"purpose,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}
