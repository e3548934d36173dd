package catalog

// User is one application login credential. Login is the unique key,
// compared case-insensitively, and must be a valid email address.
type User struct {
	Login string `json:"login" validate:"required,email"`
	Hash  string `json:"hash" validate:"required"`
}
