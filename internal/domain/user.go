package domain

import "time"

// User is an authentication record. PasswordHash never leaves the repo layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	LastLoginAt  string    `json:"lastLoginAt,omitempty"`
	IsActive     bool      `json:"isActive"`
}

// AuthUser is the public projection of a User, safe to return to clients and
// to embed in token claims.
type AuthUser struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Public strips credentials from a User.
func (u *User) Public() AuthUser {
	return AuthUser{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar}
}
