package models

import "time"

// User is an account known to the auth repository. PasswordHash never leaves
// the server.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Gender       string `json:"gender"`
	Image        string `json:"image"`
	PasswordHash string `json:"-"`
}

// Login is the result of a successful authentication.
type Login struct {
	User           User      `json:"user"`
	Token          string    `json:"token"`
	LoginTimestamp time.Time `json:"login_timestamp"`
}
