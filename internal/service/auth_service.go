package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"home_thermostat/internal/clock"
	"home_thermostat/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = time.Hour
	tokenIssuer     = "home-thermostat"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	errEmptyUsername = errors.New("username is empty")
	errEmptyPassword = errors.New("password is empty")
)

// AuthService signs up admins and issues the bearer tokens the API requires.
type AuthService struct {
	admins     repository.AdminRepo
	clock      clock.Clock
	signingKey []byte
	tokenTTL   time.Duration
}

// NewAuthService signs tokens with signingKey. An empty key is replaced by a
// random one, so issued tokens do not survive a restart.
func NewAuthService(admins repository.AdminRepo, clk clock.Clock, signingKey string, tokenTTL time.Duration) *AuthService {
	if clk == nil {
		clk = clock.System{}
	}
	if signingKey == "" {
		signingKey = uuid.NewString()
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{admins: admins, clock: clk, signingKey: []byte(signingKey), tokenTTL: tokenTTL}
}

// SignUp stores a new admin with a bcrypt hash of password.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, invalid(errEmptyUsername)
	}
	if strings.TrimSpace(password) == "" {
		return 0, invalid(errEmptyPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.admins.Create(ctx, username, string(hash))
}

// Claims carries the admin ID alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	AdminID int `json:"admin_id"`
}

// GenerateToken checks the credentials and returns a signed token.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	a, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.Itoa(a.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		AdminID: a.ID,
	})
	return token.SignedString(s.signingKey)
}

// ParseToken validates an HS256 token from this issuer and returns the admin ID.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(accessToken, &claims,
		func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims.AdminID, nil
}
