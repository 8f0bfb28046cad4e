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

func (s *Storage) SaveUser(data domain.SignupData) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
        INSERT INTO users (username, email, pass_hash)
        VALUES ($1, $2, $3)
        RETURNING id
    `, data.Username, data.Email, data.PassHash).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			msg := "User already exists"
			switch pqErr.Constraint {
			case "users_username_key":
				msg = "Username is already taken"
			case "users_email_key":
				msg = "Email is already registered"
			}
			return 0, &internal_errors.ErrorWithStatusCode{Message: msg, StatusCode: http.StatusConflict}
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) userByQuery(query string, arg any) (domain.User, error) {
	var user domain.User
	err := s.db.QueryRow(query, arg).Scan(
		&user.Id, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.PassHash, &user.Admin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

const userColumns = "id, username, email, first_name, last_name, pass_hash, admin, created_at"

func (s *Storage) UserByUsername(username string) (domain.User, error) {
	return s.userByQuery("SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	return s.userByQuery("SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userByQuery("SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *Storage) UpdatePassword(id domain.UserId, passHash string) error {
	result, err := s.db.Exec("UPDATE users SET pass_hash = $1 WHERE id = $2", passHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) UpdateProfile(id domain.UserId, update domain.ProfileUpdate) error {
	result, err := s.db.Exec(`
        UPDATE users SET first_name = $1, last_name = $2, email = $3
        WHERE id = $4
    `, update.FirstName, update.LastName, update.Email, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return &internal_errors.ErrorWithStatusCode{Message: "Email is already registered", StatusCode: http.StatusConflict}
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

// DeleteUser removes an account. Foreign keys on topics and posts fall back
// to the sentinel identity, so authored content survives.
func (s *Storage) DeleteUser(id domain.UserId) error {
	if id == domain.DeletedUserId {
		return &internal_errors.ErrorWithStatusCode{Message: "Cannot delete the reserved identity", StatusCode: http.StatusBadRequest}
	}
	result, err := s.db.Exec("DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

func (s *Storage) SavePasswordReset(reset domain.PasswordReset) error {
	// one pending reset per user
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM password_resets WHERE user_id = $1", reset.UserId); err != nil {
		return fmt.Errorf("failed to clear previous resets: %w", err)
	}
	if _, err := tx.Exec(`
        INSERT INTO password_resets (user_id, token_hash, expires)
        VALUES ($1, $2, $3)
    `, reset.UserId, reset.TokenHash, reset.Expires); err != nil {
		return fmt.Errorf("failed to insert reset: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) PasswordResetByTokenHash(tokenHash string) (domain.PasswordReset, error) {
	var reset domain.PasswordReset
	err := s.db.QueryRow(`
        SELECT user_id, token_hash, expires FROM password_resets WHERE token_hash = $1
    `, tokenHash).Scan(&reset.UserId, &reset.TokenHash, &reset.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PasswordReset{}, internal_errors.NotFound("Reset token not found")
		}
		return domain.PasswordReset{}, fmt.Errorf("failed to fetch reset: %w", err)
	}
	return reset, nil
}

func (s *Storage) DeletePasswordResets(userId domain.UserId) error {
	if _, err := s.db.Exec("DELETE FROM password_resets WHERE user_id = $1", userId); err != nil {
		return fmt.Errorf("failed to delete resets: %w", err)
	}
	return nil
}
