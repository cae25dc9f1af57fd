// Package auth implements email/password registration and login with HMAC
// JWT session tokens.
package auth

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/errors"
	"github.com/solo-life/service_layer/internal/logging"
	"github.com/solo-life/service_layer/internal/repo"
)

const (
	// BcryptCost is deliberately above the library default.
	BcryptCost = 12

	// DefaultTokenTTL is the session lifetime.
	DefaultTokenTTL = 7 * 24 * time.Hour

	minPasswordLen = 6
	maxPasswordLen = 128
	minNameLen     = 2
	maxNameLen     = 50
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies credentials against the user repository.
type Service struct {
	users    *repo.Users
	secret   []byte
	tokenTTL time.Duration
	logger   *logging.Logger
}

// New builds the auth service. tokenTTL <= 0 selects DefaultTokenTTL.
func New(users *repo.Users, secret []byte, tokenTTL time.Duration, logger *logging.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{users: users, secret: secret, tokenTTL: tokenTTL, logger: logger}
}

// Session is the result of a successful register or login.
type Session struct {
	User  domain.AuthUser `json:"user"`
	Token string          `json:"token"`
}

// Register creates a new account and returns a ready session.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if err := validateRegistration(email, password, name); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, errors.Internal("hash password", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"user_id": user.ID,
	}).Info("user registered")

	return s.newSession(user)
}

// Login verifies the credentials and returns a session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.Unauthorized("account disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("invalid email or password")
	}

	user.LastLoginAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to record login time")
	}

	return s.newSession(user)
}

// CurrentUser resolves the account behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*domain.AuthUser, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *Service) newSession(user *domain.User) (*Session, error) {
	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user.Public(), Token: token}, nil
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Internal("sign token", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token against secret and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.InvalidToken(nil).WithDetails("method", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.InvalidToken(err)
	}
	if !token.Valid {
		return nil, errors.InvalidToken(nil)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.InvalidToken(nil).WithDetails("reason", "invalid claims type")
	}
	return claims, nil
}

func validateRegistration(email, password, name string) error {
	if !emailPattern.MatchString(email) {
		return errors.Validation("invalid email address")
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return errors.Validation("password must be between 6 and 128 characters")
	}
	if n := len([]rune(name)); n < minNameLen || n > maxNameLen {
		return errors.Validation("name must be between 2 and 50 characters")
	}
	return nil
}
