package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

type MockBoardService struct {
	MockCreate func(creation domain.BoardCreationData) (domain.BoardId, error)
	MockGet    func(id domain.BoardId) (domain.Board, error)
	MockList   func() ([]domain.Board, error)
}

func (m *MockBoardService) Create(creation domain.BoardCreationData) (domain.BoardId, error) {
	if m.MockCreate != nil {
		return m.MockCreate(creation)
	}
	return 1, nil
}

func (m *MockBoardService) Get(id domain.BoardId) (domain.Board, error) {
	if m.MockGet != nil {
		return m.MockGet(id)
	}
	return domain.Board{Id: id, Name: "Django"}, nil
}

func (m *MockBoardService) List() ([]domain.Board, error) {
	if m.MockList != nil {
		return m.MockList()
	}
	return nil, nil
}

func TestHomeGetHandler(t *testing.T) {
	h := testHandler()
	router := chi.NewRouter()
	router.Get("/", h.HomeGetHandler)

	t.Run("successful", func(t *testing.T) {
		h.boards = &MockBoardService{
			MockList: func() ([]domain.Board, error) {
				return []domain.Board{{Id: 1, Name: "Django"}}, nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "page:home.html")
	})

	t.Run("service error", func(t *testing.T) {
		h.boards = &MockBoardService{
			MockList: func() ([]domain.Board, error) {
				return nil, errors.New("mock list error")
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestNewBoardPostHandler(t *testing.T) {
	h := testHandler()
	router := chi.NewRouter()
	router.Post("/boards/new/", h.NewBoardPostHandler)

	t.Run("successful creation redirects to the board", func(t *testing.T) {
		h.boards = &MockBoardService{
			MockCreate: func(creation domain.BoardCreationData) (domain.BoardId, error) {
				assert.Equal(t, "Django", creation.Name)
				return 7, nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, postForm("/boards/new/", url.Values{"name": {"Django"}, "description": {"all things Django"}}))

		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/boards/7/", rr.Header().Get("Location"))
	})

	t.Run("empty name re-renders the form", func(t *testing.T) {
		h.boards = &MockBoardService{
			MockCreate: func(creation domain.BoardCreationData) (domain.BoardId, error) {
				t.Fatal("service should not be called")
				return 0, nil
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, postForm("/boards/new/", url.Values{"name": {""}}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "page:new_board.html")
	})

	t.Run("duplicate name re-renders with the conflict message", func(t *testing.T) {
		h.boards = &MockBoardService{
			MockCreate: func(creation domain.BoardCreationData) (domain.BoardId, error) {
				return 0, &internal_errors.ErrorWithStatusCode{Message: "Board with this name already exists", StatusCode: http.StatusConflict}
			},
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, postForm("/boards/new/", url.Values{"name": {"Django"}}))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "error:Board with this name already exists")
	})
}
