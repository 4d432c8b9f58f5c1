package models

// Role is the closed set of account roles.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// RegisterType identifies how an account was created.
type RegisterType string

const (
	RegisterEmail  RegisterType = "email"
	RegisterGoogle RegisterType = "google"
	RegisterGithub RegisterType = "github"
)

// Valid reports whether t is one of the known registration types.
func (t RegisterType) Valid() bool {
	switch t {
	case RegisterEmail, RegisterGoogle, RegisterGithub:
		return true
	}
	return false
}
