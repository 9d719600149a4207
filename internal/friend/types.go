package friend

import "time"

// RequestStatus is the lifecycle state of a friend request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// FriendRequest is a single friendship offer between two directory users.
// The same record appears in the sender's sent set and the receiver's
// received set.
type FriendRequest struct {
	ID         string
	SenderID   string
	ReceiverID string
	Timestamp  time.Time
	Status     RequestStatus
}

// Filters narrows the discoverable-user set. Zero-valued bounds are taken
// literally, so a user lacking an attribute is excluded by any nonzero
// lower bound.
type Filters struct {
	Location  string
	MinAge    int
	MaxAge    int
	MinHeight int
	MaxHeight int
	Query     string
}

// DefaultFilters returns the initial discovery filter ranges.
func DefaultFilters() Filters {
	return Filters{
		MinAge:    18,
		MaxAge:    65,
		MinHeight: 150,
		MaxHeight: 200,
	}
}
