package domain

import "context"

// SwitchRepository defines the interface for the network switch inventory.
type SwitchRepository interface {
	// ListSwitches returns every switch ordered by name.
	ListSwitches(ctx context.Context) ([]*Switch, error)

	// SaveSwitch inserts the switch when it has no ID, otherwise updates the
	// mutable fields of the row with that ID. It returns the row identity.
	SaveSwitch(ctx context.Context, sw *Switch) (int64, error)

	// DeleteSwitch removes a switch. Deleting an unknown switch is not an error.
	DeleteSwitch(ctx context.Context, id int64) error
}

// Switch is an inventory entry for a managed network switch.
// Credentials and creation time live in the store but are only carried by backups.
type Switch struct {
	ID       *int64  `json:"id"`       // Nil until the switch has been saved.
	Name     string  `json:"name"`     // Unique display name.
	IP       string  `json:"ip"`       // Management address, not validated.
	Location *string `json:"location"` // Optional rack or room.
	Notes    *string `json:"notes"`    // Optional free text.
}
