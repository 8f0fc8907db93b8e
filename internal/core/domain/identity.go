package domain

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// Profile holds mess-registration details of an authenticated user.
type Profile struct {
	MessID     string
	RollNumber string
	Contact    string
}

// Identity is the already-established session identity handed in by the
// authentication layer. This core never authenticates.
type Identity struct {
	Identifier string
	Name       string
	Role       Role
	Profile    Profile
}

func (i Identity) IsStaff() bool {
	return i.Role == RoleStaff || i.Role == RoleAdmin
}

func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}

// Owns reports whether the identity's mess id matches the order's customer.
func (i Identity) Owns(o *Order) bool {
	return i.Profile.MessID != "" && i.Profile.MessID == o.Customer.MessID
}
