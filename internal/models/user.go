package models

// User is an account in the user directory.
type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// UserPatch carries a partial user update; nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
