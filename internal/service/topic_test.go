package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// MockTopicStorage mocks the TopicStorage interface.
type MockTopicStorage struct {
	createTopicFunc func(creation domain.TopicCreationData) (domain.TopicId, error)
	listTopicsFunc  func(boardId domain.BoardId, page, perPage int) (domain.TopicPage, error)
}

func (m *MockTopicStorage) CreateTopic(creation domain.TopicCreationData) (domain.TopicId, error) {
	if m.createTopicFunc != nil {
		return m.createTopicFunc(creation)
	}
	return 1, nil
}

func (m *MockTopicStorage) ListTopics(boardId domain.BoardId, page, perPage int) (domain.TopicPage, error) {
	if m.listTopicsFunc != nil {
		return m.listTopicsFunc(boardId, page, perPage)
	}
	return domain.TopicPage{}, nil
}

func TestTopicCreate_Validation(t *testing.T) {
	longMessage := make([]byte, 4001)
	for i := range longMessage {
		longMessage[i] = 'a'
	}

	testCases := []struct {
		name       string
		subject    string
		message    string
		expectCode int // 0 means success
	}{
		{name: "valid", subject: "Shitstorm", message: "You suck."},
		{name: "empty subject", subject: "", message: "hi", expectCode: 400},
		{name: "empty message", subject: "s", message: "", expectCode: 400},
		{name: "message too long", subject: "s", message: string(longMessage), expectCode: 400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var created bool
			mockStorage := &MockTopicStorage{
				createTopicFunc: func(creation domain.TopicCreationData) (domain.TopicId, error) {
					created = true
					return 42, nil
				},
			}

			s := NewTopic(mockStorage, testPublicConfig())
			id, err := s.Create(domain.TopicCreationData{
				Board: 1, Subject: tc.subject, Message: tc.message,
				Author: domain.User{Id: 7},
			})

			if tc.expectCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, domain.TopicId(42), id)
				assert.True(t, created)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.expectCode, internal_errors.StatusCode(err))
			assert.False(t, created, "nothing should persist on validation failure")
		})
	}
}

func TestTopicListPage_ClampsPage(t *testing.T) {
	var gotPage, gotPerPage int
	mockStorage := &MockTopicStorage{
		listTopicsFunc: func(boardId domain.BoardId, page, perPage int) (domain.TopicPage, error) {
			gotPage, gotPerPage = page, perPage
			return domain.TopicPage{Page: page}, nil
		},
	}

	s := NewTopic(mockStorage, testPublicConfig())
	_, err := s.ListPage(1, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 10, gotPerPage)
}

func TestTopicListPage_PropagatesNotFound(t *testing.T) {
	mockStorage := &MockTopicStorage{
		listTopicsFunc: func(boardId domain.BoardId, page, perPage int) (domain.TopicPage, error) {
			return domain.TopicPage{}, internal_errors.NotFound("Board not found")
		},
	}

	s := NewTopic(mockStorage, testPublicConfig())
	_, err := s.ListPage(999, 1)
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))
}
