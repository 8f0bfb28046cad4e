package service

import (
	"net/http"

	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// to mock service in tests
type TopicService interface {
	Create(creation domain.TopicCreationData) (domain.TopicId, error)
	ListPage(boardId domain.BoardId, page int) (domain.TopicPage, error)
}

type Topic struct {
	storage TopicStorage
	cfg     *config.Public
}

type TopicStorage interface {
	CreateTopic(creation domain.TopicCreationData) (domain.TopicId, error)
	ListTopics(boardId domain.BoardId, page, perPage int) (domain.TopicPage, error)
}

func NewTopic(storage TopicStorage, cfg *config.Public) *Topic {
	return &Topic{storage: storage, cfg: cfg}
}

func (t *Topic) Create(creation domain.TopicCreationData) (domain.TopicId, error) {
	if creation.Subject == "" || len(creation.Subject) > t.cfg.TopicSubjectMaxLen {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid subject", StatusCode: http.StatusBadRequest}
	}
	if creation.Message == "" || len(creation.Message) > t.cfg.PostMessageMaxLen {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid message", StatusCode: http.StatusBadRequest}
	}
	return t.storage.CreateTopic(creation)
}

func (t *Topic) ListPage(boardId domain.BoardId, page int) (domain.TopicPage, error) {
	page = max(1, page)
	return t.storage.ListTopics(boardId, page, t.cfg.TopicsPerPage)
}
