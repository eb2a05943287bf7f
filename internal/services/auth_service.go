package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sajidul-dev/feedline/backend/internal/apperrors"
	"github.com/sajidul-dev/feedline/backend/internal/models"
	"github.com/sajidul-dev/feedline/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLifetime = 72 * time.Hour

// AuthService handles registration, login and token issuance.
type AuthService struct {
	users     repositories.UserRepository
	jwtSecret string
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret}
}

// Register creates a new account and returns the profile with a signed token.
func (s *AuthService) Register(username, email, password string) (*models.AuthResponse, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.Validation("please provide all required fields")
	}

	if _, err := s.users.GetUserByEmail(email); err == nil {
		return nil, apperrors.Validation("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Store("failed to look up user", err)
	}
	if _, err := s.users.GetUserByUsername(username); err == nil {
		return nil, apperrors.Validation("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Store("failed to look up user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Store("failed to hash password", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, apperrors.Store("failed to create user", err)
	}

	return s.authResponse(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(email, password string) (*models.AuthResponse, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("please provide email and password")
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, apperrors.Store("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	return s.authResponse(user)
}

// Profile returns the account profile for an authenticated user.
func (s *AuthService) Profile(userID uint) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Store("failed to fetch user", err)
	}
	return user, nil
}

// IssueToken signs a JWT carrying the user's identity.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   strconv.FormatUint(uint64(user.ID), 10),
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) authResponse(user *models.User) (*models.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, apperrors.Store("failed to sign token", err)
	}
	return &models.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Avatar:   user.Avatar,
		Token:    token,
	}, nil
}
