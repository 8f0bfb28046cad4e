package domain

type (
	UserId   = int64
	Email    = string
	Password = string

	BoardId = int64
	TopicId = int64
	PostId  = int64
)
