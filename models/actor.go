package models

// ActorRole distinguishes vendor sessions from staff sessions.
type ActorRole string

const (
	RoleVendor ActorRole = "vendor"
	RoleStaff  ActorRole = "staff"
)

// Actor is the explicit identity behind every command.
type Actor struct {
	ID   string    `bson:"id" json:"id"`
	Role ActorRole `bson:"role" json:"role"`
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

// Owns reports whether a is the vendor vendorID.
func (a Actor) Owns(vendorID string) bool {
	return a.Role == RoleVendor && a.ID != "" && a.ID == vendorID
}

// StaffActor is a convenience for system-initiated staff actions.
func StaffActor(id string) Actor {
	return Actor{ID: id, Role: RoleStaff}
}

func VendorActor(id string) Actor {
	return Actor{ID: id, Role: RoleVendor}
}
