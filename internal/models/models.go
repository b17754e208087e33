package models

import (
	"time"
)

type User struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"          json:"id"`
	Firstname      string     `gorm:"size:50;not null"                  json:"firstname"`
	Lastname       string     `gorm:"size:50;not null"                  json:"lastname"`
	Email          string     `gorm:"size:255;uniqueIndex;not null"     json:"email"`
	PasswordHash   string     `gorm:"column:password;not null"          json:"-"`
	Role           Role       `gorm:"type:varchar(16);not null"         json:"role"`
	CreatedAt      time.Time  `gorm:"not null"                          json:"created_at"`
	LastLogin      *time.Time `                                         json:"last_login"`
	LoginCount     int64      `gorm:"not null;default:0"                json:"login_count"`
	ProfilePicture *string    `                                         json:"profile_picture"`
}

func (User) TableName() string { return "users" }

// NewUser is the input for creating a user. Password is plaintext and is hashed by the repository.
type NewUser struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
	Role      Role
}

// ProfileUpdate carries a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Firstname      *string
	Lastname       *string
	Email          *string
	Password       *string
	ProfilePicture *string
}

func (u ProfileUpdate) Empty() bool {
	return u.Firstname == nil && u.Lastname == nil && u.Email == nil &&
		u.Password == nil && u.ProfilePicture == nil
}
