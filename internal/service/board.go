package service

import (
	"net/http"
	"strings"

	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// to mock service in tests
type BoardService interface {
	Create(creation domain.BoardCreationData) (domain.BoardId, error)
	Get(id domain.BoardId) (domain.Board, error)
	List() ([]domain.Board, error)
}

type Board struct {
	storage BoardStorage
	cfg     *config.Public
}

type BoardStorage interface {
	CreateBoard(creation domain.BoardCreationData) (domain.BoardId, error)
	GetBoard(id domain.BoardId) (domain.Board, error)
	ListBoards() ([]domain.Board, error)
}

func NewBoard(storage BoardStorage, cfg *config.Public) *Board {
	return &Board{storage: storage, cfg: cfg}
}

func (b *Board) Create(creation domain.BoardCreationData) (domain.BoardId, error) {
	creation.Name = strings.TrimSpace(creation.Name)
	if creation.Name == "" || len(creation.Name) > b.cfg.BoardNameMaxLen {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Invalid board name", StatusCode: http.StatusBadRequest}
	}
	if len(creation.Description) > b.cfg.BoardDescMaxLen {
		return 0, &internal_errors.ErrorWithStatusCode{Message: "Description too long", StatusCode: http.StatusBadRequest}
	}
	return b.storage.CreateBoard(creation)
}

func (b *Board) Get(id domain.BoardId) (domain.Board, error) {
	return b.storage.GetBoard(id)
}

func (b *Board) List() ([]domain.Board, error) {
	return b.storage.ListBoards()
}
