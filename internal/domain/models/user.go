package models

import "time"

// User is an account known to the identity layer.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile is the public view of a user.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Token is returned by signup and login.
type Token struct {
	Token string `json:"token"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password"`
	Name     string `json:"name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password"`
}
