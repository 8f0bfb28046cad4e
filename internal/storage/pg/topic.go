package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// CreateTopic inserts the topic and its first post in one transaction: either
// both records exist afterwards or neither does.
func (s *Storage) CreateTopic(creation domain.TopicCreationData) (domain.TopicId, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Verify board exists
	var boardId domain.BoardId
	err = tx.QueryRow("SELECT id FROM boards WHERE id = $1", creation.Board).Scan(&boardId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, internal_errors.NotFound("Board not found")
		}
		return 0, fmt.Errorf("failed to validate board: %w", err)
	}

	var id domain.TopicId
	err = tx.QueryRow(`
        INSERT INTO topics (board_id, subject, started_by)
        VALUES ($1, $2, $3)
        RETURNING id
    `, creation.Board, creation.Subject, creation.Author.Id).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert topic: %w", err)
	}

	_, err = tx.Exec(`
        INSERT INTO posts (topic_id, message, created_by)
        VALUES ($1, $2, $3)
    `, id, creation.Message, creation.Author.Id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert first post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListTopics returns one page of a board's topics, newest activity first,
// each annotated with its reply count (posts minus the opening one).
func (s *Storage) ListTopics(boardId domain.BoardId, page, perPage int) (domain.TopicPage, error) {
	board, err := s.GetBoard(boardId)
	if err != nil {
		return domain.TopicPage{}, err
	}

	var total int
	if err := s.db.QueryRow("SELECT count(*) FROM topics WHERE board_id = $1", boardId).Scan(&total); err != nil {
		return domain.TopicPage{}, fmt.Errorf("failed to count topics: %w", err)
	}

	rows, err := s.db.Query(`
        SELECT
            t.id, t.subject, t.views, t.last_updated,
            u.id, u.username,
            count(p.id) - 1 AS replies
        FROM topics t
        JOIN users u ON u.id = t.started_by
        LEFT JOIN posts p ON p.topic_id = t.id
        WHERE t.board_id = $1
        GROUP BY t.id, u.id
        ORDER BY t.last_updated DESC
        LIMIT $2 OFFSET $3
    `, boardId, perPage, (page-1)*perPage)
	if err != nil {
		return domain.TopicPage{}, fmt.Errorf("failed to fetch topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		topic := domain.Topic{Board: boardId}
		if err := rows.Scan(
			&topic.Id, &topic.Subject, &topic.Views, &topic.LastUpdated,
			&topic.StartedBy.Id, &topic.StartedBy.Username, &topic.ReplyCount,
		); err != nil {
			return domain.TopicPage{}, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return domain.TopicPage{}, fmt.Errorf("rows iteration error: %w", err)
	}

	return domain.TopicPage{
		Board:      board,
		Topics:     topics,
		Page:       page,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// GetTopic fetches topic metadata without touching the view counter.
func (s *Storage) GetTopic(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error) {
	var topic domain.Topic
	err := s.db.QueryRow(`
        SELECT t.id, t.board_id, t.subject, t.views, t.last_updated, u.id, u.username
        FROM topics t
        JOIN users u ON u.id = t.started_by
        WHERE t.board_id = $1 AND t.id = $2
    `, boardId, topicId).Scan(
		&topic.Id, &topic.Board, &topic.Subject, &topic.Views, &topic.LastUpdated,
		&topic.StartedBy.Id, &topic.StartedBy.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Topic{}, internal_errors.NotFound("Topic not found")
		}
		return domain.Topic{}, fmt.Errorf("failed to fetch topic: %w", err)
	}
	return topic, nil
}

// GetTopicCountingView bumps the view counter and returns the topic in one
// statement. The increment happens inside the database, so concurrent page
// loads never lose updates.
func (s *Storage) GetTopicCountingView(boardId domain.BoardId, topicId domain.TopicId) (domain.Topic, error) {
	var topic domain.Topic
	err := s.db.QueryRow(`
        UPDATE topics t
        SET views = views + 1
        FROM users u
        WHERE t.board_id = $1 AND t.id = $2 AND u.id = t.started_by
        RETURNING t.id, t.board_id, t.subject, t.views, t.last_updated, u.id, u.username
    `, boardId, topicId).Scan(
		&topic.Id, &topic.Board, &topic.Subject, &topic.Views, &topic.LastUpdated,
		&topic.StartedBy.Id, &topic.StartedBy.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Topic{}, internal_errors.NotFound("Topic not found")
		}
		return domain.Topic{}, fmt.Errorf("failed to fetch topic: %w", err)
	}
	return topic, nil
}

func totalPages(total, perPage int) int {
	if total == 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
