// Package service contains business logic between the HTTP handlers and the
// repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"recipebox/internal/config"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "recipebox-api"
	tokenAudience = "recipebox-client"

	// token_type claim values; an access token is never accepted where a
	// refresh token is required and vice versa.
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateProfileInput carries a partial profile update; nil fields are untouched.
type UpdateProfileInput struct {
	UserID   uint
	Name     *string
	Email    *string
	Password *string
}

// AuthService implements registration, login and token refresh.
type AuthService struct {
	users         repository.UserRepository
	refreshTokens repository.RefreshTokenRepository
	cfg           *config.Config
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, refreshTokens repository.RefreshTokenRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, refreshTokens: refreshTokens, cfg: cfg}
}

// Register creates a new user. The email domain is lower-cased before the
// duplicate check and storage; the plaintext password exists only long enough
// to be hashed.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	email := validation.NormalizeEmail(in.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     in.Name,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials against active users and issues a token
// pair. The refresh token is persisted by JTI so it can be revoked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	// Opportunistic cleanup of long-dead refresh rows.
	if err := s.refreshTokens.DeleteExpired(ctx); err != nil {
		middleware.Logger.Warn("expired refresh token cleanup failed",
			slog.String("error", err.Error()))
	}

	access, err := s.generateToken(user.ID, TokenTypeAccess, s.cfg.AccessTokenTTL, uuid.NewString())
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	jti := uuid.NewString()
	refresh, err := s.generateToken(user.ID, TokenTypeRefresh, s.cfg.RefreshTokenTTL, jti)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.refreshTokens.Create(ctx, &models.RefreshToken{
		JTI:       jti,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh validates a refresh token and issues a new access token bound to
// the same identity. A token whose persisted row is gone has been revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil {
		return "", err
	}
	tokenType, _ := claims["token_type"].(string)
	if tokenType != TokenTypeRefresh {
		return "", models.NewUnauthorizedError("Not a refresh token")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", models.NewUnauthorizedError("Invalid token ID")
	}

	stored, err := s.refreshTokens.FindByJTI(ctx, jti)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", models.NewUnauthorizedError("Refresh token revoked")
	}
	if stored.ExpiresAt.Before(time.Now()) {
		return "", models.NewUnauthorizedError("Refresh token expired")
	}

	access, err := s.generateToken(stored.UserID, TokenTypeAccess, s.cfg.AccessTokenTTL, uuid.NewString())
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return access, nil
}

// Revoke invalidates a refresh token by deleting its persisted row. Revoking
// an already-revoked token succeeds; the end state is the same.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.ParseToken(refreshToken)
	if err != nil {
		return err
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != TokenTypeRefresh {
		return models.NewUnauthorizedError("Not a refresh token")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return models.NewUnauthorizedError("Invalid token ID")
	}
	return s.refreshTokens.DeleteByJTI(ctx, jti)
}

// UpdateProfile applies a partial update to the user's own profile.
func (s *AuthService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		email := validation.NormalizeEmail(*in.Email)
		if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewValidationError("Email already registered")
			}
			user.Email = email
		}
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		if err := validation.ValidatePassword(*in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the user for the given ID.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ParseToken validates a signed token's signature, expiry, issuer and
// audience, returning its claims.
func (s *AuthService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateToken(userID uint, tokenType string, ttl time.Duration, jti string) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(userID), 10),
		"iss":        tokenIssuer,
		"aud":        tokenAudience,
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
		"jti":        jti,
		"token_type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
