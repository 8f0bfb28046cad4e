package domain

import "time"

// DeletedUserId is the reserved sentinel identity. When an account is removed
// its topics and posts are re-pointed here instead of being deleted.
const DeletedUserId UserId = 1

// DeletedUserName is the username of the sentinel identity seeded by migrations.
const DeletedUserName = "deleted"

type User struct {
	Id        UserId
	Username  string
	Email     string
	FirstName string
	LastName  string
	PassHash  string
	Admin     bool
	CreatedAt time.Time
}

func (u User) IsDeletedSentinel() bool {
	return u.Id == DeletedUserId
}

type Credentials struct {
	Username string
	Password Password
}

// SignupData carries a new account thru handler -> service -> storage.
type SignupData struct {
	Username string
	Email    Email
	PassHash string
}

// ProfileUpdate is the editable subset of a user record.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     Email
}

// PasswordReset is a pending emailed reset token, stored hashed.
type PasswordReset struct {
	UserId    UserId
	TokenHash string
	Expires   time.Time
}
