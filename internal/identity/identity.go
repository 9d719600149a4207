// Package identity holds the signed-in actor. It is the leaf state manager:
// the conversation manager asks it who authors outgoing messages.
package identity

import "encoding/json"

// Status is an own-presence state.
type Status string

const (
	StatusOnline    Status = "online"
	StatusAway      Status = "away"
	StatusBusy      Status = "busy"
	StatusInvisible Status = "invisible"
)

// Identity is the signed-in actor. Created at sign-in, destroyed at
// sign-out.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Status Status `json:"status"`
}

// encode serializes the identity record for the key-value slot.
func (id *Identity) encode() (string, error) {
	b, err := json.Marshal(id)
	return string(b), err
}

func decode(raw string) (*Identity, error) {
	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, err
	}
	return &id, nil
}
