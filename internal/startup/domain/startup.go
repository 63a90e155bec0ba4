package domain

import "time"

// Startup is the minimal startup record the credential subsystem needs:
// employee registration validates the linkage target exists. The rest of the
// startup schema is owned by the management CRUD layer.
type Startup struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
