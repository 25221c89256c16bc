package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"Club_Hub/internal/model"
	"Club_Hub/internal/pkg"
	"Club_Hub/internal/repository/mysql"
	redisrepo "Club_Hub/internal/repository/redis"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	// bcrypt ignores input past 72 bytes and newer versions reject it.
	maxPasswordBytes = 72
)

// SessionStore keeps the one access token and refresh token id a user may
// currently present.
type SessionStore interface {
	Save(ctx context.Context, userID uint64, token, refreshID string) error
	RefreshID(ctx context.Context, userID uint64) (string, error)
	Delete(ctx context.Context, userID uint64) error
}

type UserService struct {
	users    mysql.UserStore
	sessions SessionStore
	tokens   *pkg.TokenIssuer
	validate *validator.Validate
	log      *zap.Logger
}

func NewUserService(users mysql.UserStore, sessions SessionStore, tokens *pkg.TokenIssuer, log *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		validate: validator.New(),
		log:      log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         model.Role `json:"role"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
}

type Profile struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        model.Role      `json:"role"`
	JoinedClubs []model.ClubRef `json:"joined_clubs"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "name is required")
	}
	verr.maxLen("name", name, model.MaxUserNameLen)
	switch {
	case email == "":
		verr.add("email", "email is required")
	case utf8.RuneCountInString(email) > model.MaxEmailLen:
		verr.add("email", fmt.Sprintf("email must be at most %d characters", model.MaxEmailLen))
	case s.validate.Var(email, "email") != nil:
		verr.add("email", "email is invalid")
	case pkg.IsDisposableEmail(email):
		verr.add("email", "disposable email addresses are not allowed")
	}
	switch {
	case len(in.Password) < minPasswordLen:
		verr.add("password", "password must be at least 6 characters")
	case len(in.Password) > maxPasswordBytes:
		verr.add("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	role, ok := model.ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		verr.add("role", "role must be student or admin")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeErr("create user", err)
	}
	s.log.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("role", string(role)))

	return s.issue(ctx, user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, mysql.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeErr("find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Refresh trades a valid refresh token for a new pair and replaces the
// active session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	// only the refresh token issued last is accepted, and not after logout
	current, err := s.sessions.RefreshID(ctx, claims.UserID)
	if errors.Is(err, redisrepo.ErrTokenNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, &StoreError{Op: "refresh id", Err: err}
	}
	if claims.ID == "" || claims.ID != current {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, mysql.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, storeErr("find user", err)
	}
	return s.issue(ctx, user)
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

// Me returns the caller's profile including the clubs they belong to.
func (s *UserService) Me(ctx context.Context, actor Identity) (*Profile, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, storeErr("find user", err)
	}
	clubs, err := s.users.JoinedClubs(ctx, user.ID)
	if err != nil {
		return nil, storeErr("joined clubs", err)
	}
	if clubs == nil {
		clubs = []model.ClubRef{}
	}
	return &Profile{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		JoinedClubs: clubs,
		CreatedAt:   user.CreatedAt,
	}, nil
}

func (s *UserService) issue(ctx context.Context, user *model.User) (*AuthResult, error) {
	pair, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user.ID, pair.AccessToken, pair.RefreshID); err != nil {
		return nil, err
	}
	return &AuthResult{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
