// FilePath: internal/models/models.recipient.go
package models

import "time"

// Recipient is a bot-authenticated end user able to issue control
// commands and receive status notifications.
type Recipient struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Username        string    `json:"username" db:"username"`
	Password        string    `json:"-" db:"password"`
	ChatID          string    `json:"chat_id" db:"chat_id"`
	CanToggleLight  bool      `json:"can_toggle_light" db:"can_toggle_light"`
	CanRequestPhoto bool      `json:"can_request_photo" db:"can_request_photo"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Capability names one guarded control action.
type Capability string

const (
	CapToggleLight  Capability = "toggle_light"
	CapRequestPhoto Capability = "request_photo"
)

// Identity is the resolved caller of a control action. It is built from
// a web session or from a bot chat sender and checked uniformly by
// hubservice.Authorize regardless of the surface the call came in on.
type Identity struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ChatID          string `json:"chat_id,omitempty"`
	Admin           bool   `json:"admin"`
	CanToggleLight  bool   `json:"can_toggle_light"`
	CanRequestPhoto bool   `json:"can_request_photo"`
}

// Identity converts a recipient row into a caller identity.
func (r *Recipient) Identity() Identity {
	return Identity{
		ID:              r.ID,
		Name:            r.Name,
		ChatID:          r.ChatID,
		CanToggleLight:  r.CanToggleLight,
		CanRequestPhoto: r.CanRequestPhoto,
	}
}

// Has reports whether the identity carries the given capability.
// Admin identities carry every capability.
func (id Identity) Has(cap Capability) bool {
	if id.Admin {
		return true
	}
	switch cap {
	case CapToggleLight:
		return id.CanToggleLight
	case CapRequestPhoto:
		return id.CanRequestPhoto
	}
	return false
}
