package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
)

const uniqueViolation = "23505"

func (s *Storage) CreateBoard(creation domain.BoardCreationData) (domain.BoardId, error) {
	var id domain.BoardId
	err := s.db.QueryRow(
		"INSERT INTO boards(name, description) VALUES($1, $2) RETURNING id",
		creation.Name, creation.Description,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, &internal_errors.ErrorWithStatusCode{
				Message:    "Board with this name already exists",
				StatusCode: http.StatusConflict,
			}
		}
		return 0, fmt.Errorf("failed to insert board: %w", err)
	}
	return id, nil
}

func (s *Storage) GetBoard(id domain.BoardId) (domain.Board, error) {
	var board domain.Board
	err := s.db.QueryRow(
		"SELECT id, name, description, last_updated FROM boards WHERE id = $1", id,
	).Scan(&board.Id, &board.Name, &board.Description, &board.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, internal_errors.NotFound("Board not found")
		}
		return domain.Board{}, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}

func (s *Storage) ListBoards() ([]domain.Board, error) {
	rows, err := s.db.Query("SELECT id, name, description, last_updated FROM boards ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		var board domain.Board
		if err := rows.Scan(&board.Id, &board.Name, &board.Description, &board.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return boards, nil
}
