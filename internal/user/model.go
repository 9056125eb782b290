package user

import "time"

// User is a marketplace account. Accounts are created by the auth service;
// this backend only reads them.
type User struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Phone          string    `db:"phone" json:"phone"`
	Role           string    `db:"role" json:"role"`
	ProfilePicture *string   `db:"profile_picture" json:"profile_picture"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
