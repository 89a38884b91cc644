package user

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID           string `gorm:"primaryKey;type:text"`
	Username     string `gorm:"uniqueIndex;not null;type:text"`
	PasswordHash string `gorm:"not null;type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Identity returns the token-facing identity of the user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}

// Identity is the authenticated caller as decoded from a session token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Session is the result of a successful signup or signin.
type Session struct {
	AccessToken string `json:"access_token"`
}
