package domain

import (
	"database/sql"
	"time"
)

type Post struct {
	Id        PostId
	Topic     TopicId
	Message   string
	CreatedAt time.Time
	UpdatedAt sql.NullTime
	CreatedBy User
	UpdatedBy *User // set only after the post was edited
}

func (p Post) Edited() bool {
	return p.UpdatedAt.Valid
}

// to iterate thru layers: handler -> service -> storage
type PostCreationData struct {
	Board   BoardId
	Topic   TopicId
	Author  User
	Message string
}

type PostUpdateData struct {
	Board   BoardId
	Topic   TopicId
	Post    PostId
	Editor  User // must equal the post's creator, enforced by the lookup
	Message string
}

// PostPage is one page of a topic's post listing.
type PostPage struct {
	Topic      Topic
	Posts      []Post
	Page       int
	TotalPages int
}
