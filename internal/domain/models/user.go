package models

// Role selects which side of a booking a user acts on. Any user may both
// offer routes (rider) and request seats (buddy); the role is a capability,
// not an exclusive type.
type Role string

const (
	RoleRider Role = "rider"
	RoleBuddy Role = "buddy"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleRider || r == RoleBuddy
}

// User is owned by the identity provider; the ledger only stores references
// to user ids and checks them against route/booking ownership.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
