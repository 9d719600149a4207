package store

// User represents a row of the immutable user directory.
type User struct {
	ID         string
	Name       string
	Email      string
	Avatar     string
	Status     string
	LastSeenAt int64 // unix ms, 0 when unknown
	Location   string
	Age        int
	HeightCM   int
	Bio        string
}
