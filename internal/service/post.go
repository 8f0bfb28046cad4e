package service

import (
	"net/http"

	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// to mock service in tests
type PostService interface {
	// ListPage returns a page of the topic's posts and counts one topic view.
	ListPage(boardId domain.BoardId, topicId domain.TopicId, page int) (domain.PostPage, error)
	// Topic fetches topic metadata without counting a view (reply form page).
	Topic(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error)
	CreateReply(creation domain.PostCreationData) (domain.PostId, error)
	GetOwn(boardId domain.BoardId, topicId domain.TopicId, postId domain.PostId, ownerId domain.UserId) (domain.Post, error)
	UpdateOwn(update domain.PostUpdateData) error
}

type Post struct {
	storage PostStorage
	cfg     *config.Public
}

type PostStorage interface {
	GetTopic(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error)
	GetTopicCountingView(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error)
	CreatePost(creation domain.PostCreationData) (domain.PostId, error)
	ListPosts(topicId domain.TopicId, page, perPage int) ([]domain.Post, int, error)
	GetOwnPost(boardId domain.BoardId, topicId domain.TopicId, postId domain.PostId, ownerId domain.UserId) (domain.Post, error)
	UpdateOwnPost(update domain.PostUpdateData) error
}

func NewPost(storage PostStorage, cfg *config.Public) *Post {
	return &Post{storage: storage, cfg: cfg}
}

func (p *Post) ListPage(boardId domain.BoardId, topicId domain.TopicId, page int) (domain.PostPage, error) {
	page = max(1, page)

	// Every page load counts as a view, repeated and paginated ones included.
	topic, err := p.storage.GetTopicCountingView(boardId, topicId)
	if err != nil {
		return domain.PostPage{}, err
	}

	posts, totalPages, err := p.storage.ListPosts(topicId, page, p.cfg.PostsPerPage)
	if err != nil {
		return domain.PostPage{}, err
	}

	return domain.PostPage{Topic: topic, Posts: posts, Page: page, TotalPages: totalPages}, nil
}

func (p *Post) Topic(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error) {
	return p.storage.GetTopic(boardId, topicId)
}

func (p *Post) CreateReply(creation domain.PostCreationData) (domain.PostId, error) {
	if creation.Message == "" || len(creation.Message) > p.cfg.PostMessageMaxLen {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid message", StatusCode: http.StatusBadRequest}
	}
	return p.storage.CreatePost(creation)
}

func (p *Post) GetOwn(boardId domain.BoardId, topicId domain.TopicId, postId domain.PostId, ownerId domain.UserId) (domain.Post, error) {
	return p.storage.GetOwnPost(boardId, topicId, postId, ownerId)
}

func (p *Post) UpdateOwn(update domain.PostUpdateData) error {
	if update.Message == "" || len(update.Message) > p.cfg.PostMessageMaxLen {
		return &internal_errors.ErrorWithStatusCode{Message: "Invalid message", StatusCode: http.StatusBadRequest}
	}
	return p.storage.UpdateOwnPost(update)
}
