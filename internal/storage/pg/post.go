package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

// CreatePost appends a reply and bumps the parent topic's recency in one
// transaction.
func (s *Storage) CreatePost(creation domain.PostCreationData) (domain.PostId, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
        UPDATE topics
        SET last_updated = now() AT TIME ZONE 'utc'
        WHERE board_id = $1 AND id = $2
    `, creation.Board, creation.Topic)
	if err != nil {
		return 0, fmt.Errorf("failed to bump topic: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return 0, internal_errors.NotFound("Topic not found")
	}

	var id domain.PostId
	err = tx.QueryRow(`
        INSERT INTO posts (topic_id, message, created_by)
        VALUES ($1, $2, $3)
        RETURNING id
    `, creation.Topic, creation.Message, creation.Author.Id).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListPosts returns one page of a topic's posts, newest first.
func (s *Storage) ListPosts(topicId domain.TopicId, page, perPage int) ([]domain.Post, int, error) {
	var total int
	if err := s.db.QueryRow("SELECT count(*) FROM posts WHERE topic_id = $1", topicId).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := s.db.Query(`
        SELECT
            p.id, p.topic_id, p.message, p.created_at, p.updated_at,
            c.id, c.username,
            e.id, e.username
        FROM posts p
        JOIN users c ON c.id = p.created_by
        LEFT JOIN users e ON e.id = p.updated_by AND p.updated_at IS NOT NULL
        WHERE p.topic_id = $1
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT $2 OFFSET $3
    `, topicId, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var post domain.Post
		var editorId sql.NullInt64
		var editorName sql.NullString
		if err := rows.Scan(
			&post.Id, &post.Topic, &post.Message, &post.CreatedAt, &post.UpdatedAt,
			&post.CreatedBy.Id, &post.CreatedBy.Username,
			&editorId, &editorName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		if editorId.Valid {
			post.UpdatedBy = &domain.User{Id: editorId.Int64, Username: editorName.String}
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return posts, totalPages(total, perPage), nil
}

// GetOwnPost resolves a post only when the requester created it. Anyone else
// gets NotFound, which keeps the post's existence hidden from non-owners.
func (s *Storage) GetOwnPost(boardId domain.BoardId, topicId domain.TopicId, postId domain.PostId, ownerId domain.UserId) (domain.Post, error) {
	var post domain.Post
	err := s.db.QueryRow(`
        SELECT p.id, p.topic_id, p.message, p.created_at, p.updated_at, u.id, u.username
        FROM posts p
        JOIN topics t ON t.id = p.topic_id
        JOIN users u ON u.id = p.created_by
        WHERE p.id = $1 AND p.topic_id = $2 AND t.board_id = $3 AND p.created_by = $4
    `, postId, topicId, boardId, ownerId).Scan(
		&post.Id, &post.Topic, &post.Message, &post.CreatedAt, &post.UpdatedAt,
		&post.CreatedBy.Id, &post.CreatedBy.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, internal_errors.NotFound("Post not found")
		}
		return domain.Post{}, fmt.Errorf("failed to fetch post: %w", err)
	}
	return post, nil
}

// UpdateOwnPost rewrites a post's message, stamping editor and edit time.
// The WHERE clause repeats the ownership predicate, so a non-owner's update
// matches zero rows and surfaces as NotFound.
func (s *Storage) UpdateOwnPost(update domain.PostUpdateData) error {
	result, err := s.db.Exec(`
        UPDATE posts p
        SET message = $1, updated_at = now() AT TIME ZONE 'utc', updated_by = $2
        FROM topics t
        WHERE p.id = $3 AND p.topic_id = $4 AND t.id = p.topic_id
          AND t.board_id = $5 AND p.created_by = $2
    `, update.Message, update.Editor.Id, update.Post, update.Topic, update.Board)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("Post not found")
	}
	return nil
}
