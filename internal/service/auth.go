package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talkboard/talkboard/internal/config"
	"github.com/talkboard/talkboard/internal/domain"
	internal_errors "github.com/talkboard/talkboard/internal/errors"
	"github.com/talkboard/talkboard/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// to mock service in tests
type AuthService interface {
	Signup(username string, email domain.Email, password domain.Password) (domain.User, error)
	Login(creds domain.Credentials) (domain.User, error)
	ChangePassword(userId domain.UserId, current, newPassword domain.Password) error
	RequestPasswordReset(email domain.Email, resetURL func(token string) string) error
	ConfirmPasswordReset(token string, newPassword domain.Password) error
	Profile(userId domain.UserId) (domain.User, error)
	UpdateProfile(userId domain.UserId, update domain.ProfileUpdate) error
}

type Auth struct {
	storage AuthStorage
	mailer  Mailer
	cfg     *config.Public
}

type AuthStorage interface {
	SaveUser(data domain.SignupData) (domain.UserId, error)
	UserByUsername(username string) (domain.User, error)
	UserByEmail(email domain.Email) (domain.User, error)
	UserById(id domain.UserId) (domain.User, error)
	UpdatePassword(id domain.UserId, passHash string) error
	UpdateProfile(id domain.UserId, update domain.ProfileUpdate) error
	SavePasswordReset(reset domain.PasswordReset) error
	PasswordResetByTokenHash(tokenHash string) (domain.PasswordReset, error)
	DeletePasswordResets(userId domain.UserId) error
}

type Mailer interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

func NewAuth(storage AuthStorage, mailer Mailer, cfg *config.Public) *Auth {
	return &Auth{storage: storage, mailer: mailer, cfg: cfg}
}

func (a *Auth) Signup(username string, email domain.Email, password domain.Password) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := a.mailer.IsCorrect(email); err != nil {
		return domain.User{}, err
	}
	if username == domain.DeletedUserName {
		return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "Username is reserved", StatusCode: http.StatusConflict}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	id, err := a.storage.SaveUser(domain.SignupData{Username: username, Email: email, PassHash: string(passHash)})
	if err != nil {
		return domain.User{}, err
	}

	return a.storage.UserById(id)
}

// Login checks credentials and returns the user. A missing user and a wrong
// password produce the same error, to not leak which usernames exist.
func (a *Auth) Login(creds domain.Credentials) (domain.User, error) {
	invalid := &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

	user, err := a.storage.UserByUsername(strings.TrimSpace(creds.Username))
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.User{}, invalid
		}
		return domain.User{}, err
	}
	if user.IsDeletedSentinel() {
		return domain.User{}, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return domain.User{}, invalid
	}

	return user, nil
}

func (a *Auth) ChangePassword(userId domain.UserId, current, newPassword domain.Password) error {
	user, err := a.storage.UserById(userId)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(current)); err != nil {
		return &internal_errors.ErrorWithStatusCode{Message: "Current password is incorrect", StatusCode: http.StatusBadRequest}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	return a.storage.UpdatePassword(userId, string(passHash))
}

// RequestPasswordReset emails a single-use reset link. An unknown email is
// not an error: the caller renders the same "check your inbox" page either
// way, so the operation does not reveal which addresses are registered.
func (a *Auth) RequestPasswordReset(email domain.Email, resetURL func(token string) string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := a.mailer.IsCorrect(email); err != nil {
		return err
	}

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if user.IsDeletedSentinel() {
		return nil
	}

	token := uuid.NewString()
	reset := domain.PasswordReset{
		UserId:    user.Id,
		TokenHash: hashResetToken(token),
		Expires:   time.Now().UTC().Add(a.cfg.ResetTokenTTL.Std()),
	}
	if err := a.storage.SavePasswordReset(reset); err != nil {
		return err
	}

	body := fmt.Sprintf(`Hello,

Someone requested a password reset for your account.
Follow the link below to choose a new password:

%s

The link expires in %s. If you did not request this, ignore this email.
`, resetURL(token), a.cfg.ResetTokenTTL.Std())

	return a.mailer.Send(email, "Password reset", body)
}

func (a *Auth) ConfirmPasswordReset(token string, newPassword domain.Password) error {
	reset, err := a.storage.PasswordResetByTokenHash(hashResetToken(token))
	if err != nil {
		return err
	}
	if reset.Expires.Before(time.Now().UTC()) {
		return internal_errors.NotFound("Reset token not found")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}
	if err := a.storage.UpdatePassword(reset.UserId, string(passHash)); err != nil {
		return err
	}
	return a.storage.DeletePasswordResets(reset.UserId)
}

func (a *Auth) Profile(userId domain.UserId) (domain.User, error) {
	return a.storage.UserById(userId)
}

func (a *Auth) UpdateProfile(userId domain.UserId, update domain.ProfileUpdate) error {
	update.Email = strings.ToLower(strings.TrimSpace(update.Email))
	if err := a.mailer.IsCorrect(update.Email); err != nil {
		return err
	}
	return a.storage.UpdateProfile(userId, update)
}

// Reset tokens are random UUIDs, so a fast deterministic hash is enough: the
// digest only needs to be unguessable from the stored value and usable as a
// lookup key.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
