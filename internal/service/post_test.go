package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// MockPostStorage mocks the PostStorage interface.
type MockPostStorage struct {
	getTopicFunc             func(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error)
	getTopicCountingViewFunc func(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error)
	createPostFunc           func(creation domain.PostCreationData) (domain.PostId, error)
	listPostsFunc            func(topicId domain.TopicId, page, perPage int) ([]domain.Post, int, error)
	getOwnPostFunc           func(boardId domain.BoardId, topicId domain.TopicId, postId domain.PostId, ownerId domain.UserId) (domain.Post, error)
	updateOwnPostFunc        func(update domain.PostUpdateData) error
}

func (m *MockPostStorage) GetTopic(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error) {
	if m.getTopicFunc != nil {
		return m.getTopicFunc(boardId, topicId)
	}
	return domain.Topic{}, nil
}

func (m *MockPostStorage) GetTopicCountingView(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error) {
	if m.getTopicCountingViewFunc != nil {
		return m.getTopicCountingViewFunc(boardId, topicId)
	}
	return domain.Topic{}, nil
}

func (m *MockPostStorage) CreatePost(creation domain.PostCreationData) (domain.PostId, error) {
	if m.createPostFunc != nil {
		return m.createPostFunc(creation)
	}
	return 1, nil
}

func (m *MockPostStorage) ListPosts(topicId domain.TopicId, page, perPage int) ([]domain.Post, int, error) {
	if m.listPostsFunc != nil {
		return m.listPostsFunc(topicId, page, perPage)
	}
	return nil, 1, nil
}

func (m *MockPostStorage) GetOwnPost(boardId domain.BoardId, topicId domain.TopicId, postId domain.PostId, ownerId domain.UserId) (domain.Post, error) {
	if m.getOwnPostFunc != nil {
		return m.getOwnPostFunc(boardId, topicId, postId, ownerId)
	}
	return domain.Post{}, nil
}

func (m *MockPostStorage) UpdateOwnPost(update domain.PostUpdateData) error {
	if m.updateOwnPostFunc != nil {
		return m.updateOwnPostFunc(update)
	}
	return nil
}

func TestPostListPage_CountsView(t *testing.T) {
	var viewCounted bool
	mockStorage := &MockPostStorage{
		getTopicCountingViewFunc: func(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error) {
			viewCounted = true
			return domain.Topic{Id: topicId, Board: boardId, Views: 5}, nil
		},
		listPostsFunc: func(topicId domain.TopicId, page, perPage int) ([]domain.Post, int, error) {
			assert.Equal(t, 3, perPage)
			return []domain.Post{{Id: 1}}, 2, nil
		},
	}

	s := NewPost(mockStorage, testPublicConfig())
	page, err := s.ListPage(1, 2, 1)
	require.NoError(t, err)
	assert.True(t, viewCounted)
	assert.Equal(t, int64(5), page.Topic.Views)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Posts, 1)
}

func TestPostListPage_TopicNotFound(t *testing.T) {
	mockStorage := &MockPostStorage{
		getTopicCountingViewFunc: func(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error) {
			return domain.Topic{}, internal_errors.NotFound("Topic not found")
		},
		listPostsFunc: func(topicId domain.TopicId, page, perPage int) ([]domain.Post, int, error) {
			t.Fatal("posts should not be listed for a missing topic")
			return nil, 0, nil
		},
	}

	s := NewPost(mockStorage, testPublicConfig())
	_, err := s.ListPage(1, 999, 1)
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestCreateReply_Validation(t *testing.T) {
	testCases := []struct {
		name       string
		message    string
		expectCode int
	}{
		{name: "valid", message: "a reply"},
		{name: "empty", message: "", expectCode: 400},
		{name: "too long", message: strings.Repeat("a", 4001), expectCode: 400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var created bool
			mockStorage := &MockPostStorage{
				createPostFunc: func(creation domain.PostCreationData) (domain.PostId, error) {
					created = true
					return 9, nil
				},
			}

			s := NewPost(mockStorage, testPublicConfig())
			_, err := s.CreateReply(domain.PostCreationData{Board: 1, Topic: 2, Message: tc.message})

			if tc.expectCode == 0 {
				require.NoError(t, err)
				assert.True(t, created)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.expectCode, internal_errors.StatusCode(err))
			assert.False(t, created)
		})
	}
}

func TestUpdateOwn_Validation(t *testing.T) {
	mockStorage := &MockPostStorage{
		updateOwnPostFunc: func(update domain.PostUpdateData) error {
			t.Fatal("storage should not be reached on invalid message")
			return nil
		},
	}

	s := NewPost(mockStorage, testPublicConfig())
	err := s.UpdateOwn(domain.PostUpdateData{Board: 1, Topic: 2, Post: 3, Message: ""})
	require.Error(t, err)
	assert.Equal(t, 400, internal_errors.StatusCode(err))
}

func TestUpdateOwn_PropagatesNotFound(t *testing.T) {
	mockStorage := &MockPostStorage{
		updateOwnPostFunc: func(update domain.PostUpdateData) error {
			return internal_errors.NotFound("Post not found")
		},
	}

	s := NewPost(mockStorage, testPublicConfig())
	err := s.UpdateOwn(domain.PostUpdateData{Board: 1, Topic: 2, Post: 3, Message: "edit"})
	require.Error(t, err)
	assert.True(t, internal_errors.IsNotFound(err))
}
