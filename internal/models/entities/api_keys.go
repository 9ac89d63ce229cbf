package entities

import "river-transit/ticketdesk/internal/constants"

// ApiKey is a desk terminal credential.
type ApiKey struct {
	Key    string             `db:"key"`
	Label  string             `db:"label"`
	Role   constants.DeskRole `db:"role"`
	Status string             `db:"status"`
}

// Active reports whether the key may authenticate.
func (k *ApiKey) Active() bool {
	return k.Status == "active"
}
