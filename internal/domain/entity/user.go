package entity

import "time"

// User is the identity record. PasswordHash is a bcrypt digest and must never
// be serialized in a response.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Public returns the response-safe subset of the user record.
func (u *User) Public() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"created_at": u.CreatedAt,
	}
}
