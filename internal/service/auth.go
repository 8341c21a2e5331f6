package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/stashit/stashit/internal/domain"
)

var tracer = otel.Tracer("auth")

var (
	// ErrUsernameTaken is returned by Signup for duplicate usernames.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials is returned by Signin for any username/password
	// mismatch, without distinguishing which half was wrong.
	ErrInvalidCredentials = errors.New("incorrect credentials")
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// AuthService owns signup/signin and the bearer tokens that scope every
// content and search operation.
type AuthService struct {
	users  UserStore
	secret []byte
	expiry time.Duration
}

func NewAuthService(users UserStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Signup registers a new user with a bcrypt-hashed password.
func (s *AuthService) Signup(ctx context.Context, username, password string) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Signup")
	defer span.End()

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return domain.User{}, ErrUsernameTaken
	}
	if !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		return domain.User{}, pkgerrors.Wrap(err, "AuthService.Signup: user lookup failed")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, pkgerrors.Wrap(err, "AuthService.Signup: password hashing failed")
	}

	user := domain.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: string(hashed),
	}
	return s.users.Create(ctx, user)
}

// Signin validates credentials and issues a signed token carrying the user id.
func (s *AuthService) Signin(ctx context.Context, username, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Signin")
	defer span.End()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		span.RecordError(err)
		return "", pkgerrors.Wrap(err, "AuthService.Signin: user lookup failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		span.RecordError(err)
		return "", pkgerrors.Wrap(err, "AuthService.Signin: token signing failed")
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry and returns the user id.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (string, error) {
	_, span := tracer.Start(ctx, "Auth.Service.VerifyToken")
	defer span.End()

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		err := fmt.Errorf("token carries no subject")
		span.RecordError(err)
		return "", err
	}

	return claims.Subject, nil
}
