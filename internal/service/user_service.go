// Package service implements the application's business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"assistant-go/internal/model"
	"assistant-go/internal/repository"
	"assistant-go/pkg/apperr"
	"assistant-go/pkg/hash"
	"assistant-go/pkg/token"
)

// blacklistKey is the Redis key prefix for revoked access tokens.
const blacklistKey = "jwt:blacklist:%s"

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserService handles registration, authentication and session lifecycle.
type UserService interface {
	Register(username, password, email string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, *model.User, error)
	Profile(userID uint) (*model.User, error)
	Logout(ctx context.Context, tokenString string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	IsTokenRevoked(ctx context.Context, tokenString string) (bool, error)
}

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *token.JWTManager
	rdb        *redis.Client
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo repository.UserRepository, jwtManager *token.JWTManager, rdb *redis.Client) UserService {
	return &userService{userRepo: userRepo, jwtManager: jwtManager, rdb: rdb}
}

func (s *userService) Register(username, password, email string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperr.Validationf("username and password are required")
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, apperr.Validationf("username '%s' is already taken", username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Password: hashed,
		Email:    email,
		Language: "nl",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Validationf("invalid username or password")
		}
		return nil, nil, err
	}
	if !hash.CheckPasswordHash(password, user.Password) {
		return nil, nil, apperr.Validationf("invalid username or password")
	}

	access, err := s.jwtManager.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

func (s *userService) Profile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user %d not found", userID)
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes the access token by blacklisting it in Redis for the
// remainder of its validity.
func (s *userService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		// Expired or malformed tokens need no blacklisting.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return apperr.Validationf("invalid token")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, fmt.Sprintf(blacklistKey, tokenString), "revoked", ttl).Err()
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, apperr.Validationf("invalid refresh token")
	}
	revoked, err := s.IsTokenRevoked(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperr.Validationf("refresh token has been revoked")
	}

	access, err := s.jwtManager.GenerateToken(claims.UserID, claims.Username)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.jwtManager.GenerateRefreshToken(claims.UserID, claims.Username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *userService) IsTokenRevoked(ctx context.Context, tokenString string) (bool, error) {
	_, err := s.rdb.Get(ctx, fmt.Sprintf(blacklistKey, tokenString)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
