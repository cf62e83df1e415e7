package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"yatube/app/models"
	"yatube/app/repositories"
)

const invalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// AuthService registers users and manages their login sessions
type AuthService struct {
	store      *repositories.Store
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(store *repositories.Store, sessionTTL time.Duration) *AuthService {
	return &AuthService{store: store, sessionTTL: sessionTTL}
}

// SessionTTL is how long a fresh session stays valid
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Signup creates an account from the form
func (s *AuthService) Signup(ctx context.Context, form *models.SignupForm) (*models.User, error) {
	if fields := form.Validate(); fields != nil {
		return nil, invalid(fields)
	}

	user := &models.User{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	err := s.register(ctx, user, form.Password)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, invalid(models.FieldErrors{"username": "A user with that username already exists."})
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser stores an account without going through the signup form
func (s *AuthService) CreateUser(ctx context.Context, username, password string, staff bool) (*models.User, error) {
	user := &models.User{
		Username: username,
		IsStaff:  staff,
	}
	if err := s.register(ctx, user, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) register(ctx context.Context, user *models.User, password string) error {
	if err := user.SetPassword(password); err != nil {
		return err
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %v", err)
	}

	if err := s.store.Users.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("User %s registered", user.Username)
	return nil
}

// Authenticate checks the credentials in form
func (s *AuthService) Authenticate(ctx context.Context, form *models.LoginForm) (*models.User, error) {
	if fields := form.Validate(); fields != nil {
		return nil, invalid(fields)
	}

	user, err := s.store.Users.GetByUsername(ctx, form.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, invalid(models.FieldErrors{"": invalidLogin})
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(form.Password) {
		return nil, invalid(models.FieldErrors{"": invalidLogin})
	}
	return user, nil
}

// StartSession issues a new token for user. Only its hash is stored.
func (s *AuthService) StartSession(ctx context.Context, user *models.User) (string, time.Time, error) {
	token := uuid.New()
	expires := time.Now().Add(s.sessionTTL)

	session := &models.Session{
		TokenHash: hashToken(token),
		UserID:    user.ID,
		ExpiresAt: expires,
	}
	if err := s.store.Sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("error creating session: %v", err)
	}
	return token.String(), expires, nil
}

// CurrentUser resolves a cookie token. Unknown, malformed and expired tokens
// yield a nil user and no error.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	uid, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.store.Sessions.Get(ctx, hashToken(uid))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}

	user, err := s.store.Users.GetByID(ctx, session.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// Logout forgets the session behind token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	uid, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	return s.store.Sessions.Delete(ctx, hashToken(uid))
}

func hashToken(uid uuid.UUID) string {
	bytes := uid[:]
	hashBytes := sha256.Sum256(bytes)
	return hex.EncodeToString(hashBytes[:])
}
