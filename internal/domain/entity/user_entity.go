package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash. HashedRefreshToken is the single session slot:
// nil means no live session.
type User struct {
	ID                 string
	Name               string
	Email              string
	Password           string
	HashedRefreshToken *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PublicUser is the only user representation that leaves the server.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
