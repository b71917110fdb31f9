package entity

import "time"

// User supplies the owner identifier every other row is scoped by.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}
