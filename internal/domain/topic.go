package domain

import "time"

type Topic struct {
	Id          TopicId
	Board       BoardId
	Subject     string
	Views       int64
	LastUpdated time.Time
	StartedBy   User

	// ReplyCount is post count minus one: the first post is the topic's own
	// content, not a reply. Computed by the topic listing query.
	ReplyCount int
}

// to iterate thru layers: handler -> service -> storage
type TopicCreationData struct {
	Board   BoardId
	Subject string
	Author  User
	Message string // becomes the topic's first post
}

// TopicPage is one page of a board's topic listing.
type TopicPage struct {
	Board      Board
	Topics     []Topic
	Page       int
	TotalPages int
}
