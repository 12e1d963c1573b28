package services

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/vikasavnish/carecoord/internal/models"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// AuthService defines the interface for authentication operations
type AuthService interface {
	Authenticate(email, password string) (models.User, error)
	GenerateToken(user models.User) (string, error)
	ParseToken(tokenString string) (*models.Claims, error)
}

// authService implements the AuthService interface
type authService struct {
	users     UserService
	secretKey []byte
	ttl       time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(users UserService, secretKey []byte, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = 60 * time.Minute
	}
	return &authService{
		users:     users,
		secretKey: secretKey,
		ttl:       ttl,
	}
}

// Authenticate verifies user credentials and returns the user if valid
func (s *authService) Authenticate(email, password string) (models.User, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GenerateToken creates a new JWT token for the user
func (s *authService) GenerateToken(user models.User) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ParseToken validates a signed token and returns its claims
func (s *authService) ParseToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
