package entities

import "time"

// Role is the access level of an operator. It is a closed two-variant type
// so a typo in a role string can never silently widen or narrow access.
type Role string

const (
	// RoleAdministrator sees and mutates every device.
	RoleAdministrator Role = "administrator"
	// RoleOwner sees and mutates only devices it owns.
	RoleOwner Role = "owner"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleOwner
}

// Operator is an authenticated caller of the management API.
type Operator struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name" bson:"name"`
	Role      Role      `json:"role" bson:"role"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (o *Operator) Validate() error {
	if o.Email == "" {
		return &ValidationError{Field: "email", Reason: "email is required"}
	}
	if o.Name == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if !o.Role.Valid() {
		return &ValidationError{Field: "role", Reason: "role must be administrator or owner"}
	}
	return nil
}

// Scope is the set of devices an operator may see or mutate.
type Scope struct {
	// OwnerID restricts the scope to a single owner when non-nil.
	OwnerID *string
}

// ScopeFor derives the device scope from the operator's role.
func ScopeFor(op *Operator) Scope {
	if op.Role == RoleAdministrator {
		return Scope{}
	}
	id := op.ID
	return Scope{OwnerID: &id}
}

// Allows reports whether the device is visible within the scope.
func (s Scope) Allows(d *Device) bool {
	return s.OwnerID == nil || d.OwnerID == *s.OwnerID
}
