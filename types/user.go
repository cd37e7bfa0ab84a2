package types

// Role values distinguish the two tiers of accounts.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User represents a registered library member or administrator.
type User struct {
	// ID is the unique, stable identifier of the user.
	ID string `json:"id"`

	// Name is the user's given name.
	Name string `json:"name"`

	// Surname1 is the user's first surname.
	Surname1 string `json:"surname1"`

	// Surname2 is the user's second surname.
	Surname2 string `json:"surname2"`

	// Role indicates the user's authorization level,
	// either "member" or "admin".
	Role string `json:"role"`

	// PasswordHash stores the deterministic digest of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName renders the user's full name for documents and listings.
func (u User) DisplayName() string {
	return u.Name + " " + u.Surname1 + " " + u.Surname2
}
