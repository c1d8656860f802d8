package entity

import (
	"time"

	"today-scheduler/core/entity"
)

// User is a scheduling participant. The telegram identifier (tid) is the
// handle mentioned in event descriptions and used for /accept; the stored
// OAuth tokens let the calendar gateway read the user's free/busy data.
type User struct {
	entity.BaseEntity
	Tid            string     `db:"tid" json:"tid"`
	Email          string     `db:"email" json:"email"`
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   string     `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"-"`
}

func (User) TableName() string {
	return "users"
}
