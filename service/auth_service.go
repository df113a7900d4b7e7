package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/goblog/models"
	"github.com/cppla/goblog/repository"
	"github.com/cppla/goblog/utils"
)

// Messages shown to the visitor when authentication fails.
const (
	MsgEmailTaken      = "This email is already registered, you can log in."
	MsgEmailUnknown    = "This email is not registered, please try again."
	MsgWrongPassword   = "Wrong password, please try again."
	MsgLoginToComment  = "You need to log in or register to comment."
	MsgSessionRequired = "Please log in to continue."
)

type AuthService struct {
	users     repository.UserRepository
	tokens    *utils.TokenIssuer
	blacklist *utils.TokenBlacklist
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type SignInInput struct {
	Email    string
	Password string
}

func NewAuthService(
	users repository.UserRepository,
	tokens *utils.TokenIssuer,
	blacklist *utils.TokenBlacklist,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt hashed password. An existing email is a Conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "This field is required.")
	}
	if email == "" {
		return nil, models.NewValidationError("email", "This field is required.")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, models.NewConflictError("email", MsgEmailTaken)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewValidationError("password", err.Error())
	}

	user := &models.User{Name: name, Email: email, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("email", MsgEmailTaken)
		}
		return nil, models.NewInternalError(err)
	}
	utils.Logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// SignIn verifies the credentials. Unknown email and wrong password are both
// InvalidCredentials but carry distinct messages.
func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewInvalidCredentialsError(MsgEmailUnknown)
		}
		return nil, models.NewInternalError(err)
	}
	if !utils.CheckPassword(user.Password, in.Password) {
		return nil, models.NewInvalidCredentialsError(MsgWrongPassword)
	}
	return user, nil
}

// IssueSession returns a signed session token for user.
func (s *AuthService) IssueSession(user *models.User) (string, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// SessionTTL is the lifetime of issued session tokens.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

// SignOut revokes the token until it would have expired. Invalid tokens are ignored.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil
	}
	exp := time.Now().Add(s.tokens.TTL())
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, exp); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CurrentUser resolves a session token to its user. A missing, invalid or
// revoked token, or one whose user no longer exists, yields (nil, nil).
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, nil
	}
	if s.blacklist.IsRevoked(ctx, claims.ID) {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}
