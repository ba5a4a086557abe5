package domain

import "time"

// User represents a registered account. PasswordHash never leaves the service
// layer; callers outside it only ever see PublicUser.
type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// PublicUser is the serializable view of a User.
type PublicUser struct {
	ID        string
	UserName  string
	Email     string
	Role      string
	CreatedAt time.Time
}

// Public strips credential fields from the user.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
