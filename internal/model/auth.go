package model

// LoginRequest is the body posted to the JWT create endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the freshly minted token pair.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest is the body posted to the JWT refresh endpoint.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshResponse carries the replacement access token. The refresh
// token itself is never rotated by the backend.
type RefreshResponse struct {
	Access string `json:"access"`
}

// ChangePasswordRequest is the body posted to the set-password endpoint.
// The minimum length mirrors the backend's password validator so obvious
// rejections are caught before the wire.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ErrorBody is the loosely typed error shape returned by the backend.
// Any of the three fields may be present; consumers prefer Message,
// then Detail, then Error.
type ErrorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}
