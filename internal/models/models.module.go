// FilePath: internal/models/models.module.go
package models

import "time"

const (
	// StatusInit is assigned to a module on its first status push,
	// before the pushed status is applied.
	StatusInit = "init"

	// DefaultLightThreshold is the relay trigger level for new modules.
	DefaultLightThreshold = 1000
)

// Module holds the last-known state of one field module plus the
// server-side desired state delivered back on every status push.
type Module struct {
	ID             string     `json:"id" db:"id"`
	Status         string     `json:"status" db:"status"`
	CurrentLight   int        `json:"current_light" db:"current_light"`
	LightThreshold int        `json:"light_threshold" db:"light_threshold"`
	AutoMode       bool       `json:"auto_mode" db:"auto_mode"`
	RelayOn        bool       `json:"relay_on" db:"relay_on"`
	PhotoRequested bool       `json:"photo_requested" db:"photo_requested"`
	LastPhoto      *string    `json:"last_photo" db:"last_photo"`
	RequesterID    *string    `json:"-" db:"requester_id"`
	LastUpdate     time.Time  `json:"last_update" db:"last_update"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// CommandView is the subset of server-held desired state returned to a
// module on each status push. This is the only command-delivery channel.
type CommandView struct {
	AutoMode       bool `json:"auto_mode"`
	RelayOn        bool `json:"relay_on"`
	LightThreshold int  `json:"light_threshold"`
	PhotoCommand   bool `json:"photo_command"`
}

// CommandView derives the outbound command payload from the module state.
func (m *Module) CommandView() CommandView {
	return CommandView{
		AutoMode:       m.AutoMode,
		RelayOn:        m.RelayOn,
		LightThreshold: m.LightThreshold,
		PhotoCommand:   m.PhotoRequested,
	}
}

// StatusPush is the inbound payload of a module status report.
// Field names match the device firmware wire format.
type StatusPush struct {
	ModuleID     string `json:"modulo_id"`
	Status       string `json:"status"`
	LightReading int    `json:"light_reading"`
}

// StatusEvent is an immutable record of one observed status transition.
type StatusEvent struct {
	ID             string    `json:"id" db:"id"`
	ModuleID       string    `json:"module_id" db:"module_id"`
	PreviousStatus string    `json:"previous_status" db:"previous_status"`
	NewStatus      string    `json:"new_status" db:"new_status"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}
