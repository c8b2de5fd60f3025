package model

// User is the authenticated employee's profile as returned by the
// users/me endpoint.
type User struct {
	// ID is the backend's stable identifier for this account.
	ID int `json:"id"`

	Username string `json:"username"`
	Email    string `json:"email"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// PhoneNumber may be absent for accounts created before it became
	// a profile field.
	PhoneNumber string `json:"phone_number"`

	// Role is the backend role label (e.g. "employer", "technician").
	Role string `json:"role"`

	// Wilaya is the administrative province the employee operates in.
	Wilaya string `json:"wilaya"`

	// Group is the work crew the employee belongs to, if any.
	Group string `json:"group"`
}

// FullName returns "First Last", falling back to the username when the
// profile carries no name.
func (u User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UpdateProfileRequest is the partial-update body for PATCH users/me.
// Nil fields are omitted so the backend leaves them untouched.
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}
