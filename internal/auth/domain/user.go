package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id PHC string, or bcrypt for imported accounts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential is what the gateway needs to authenticate a username: the stored
// hash and the roles to embed in issued tokens.
type Credential struct {
	Username     string
	PasswordHash string
	Roles        []string
}
