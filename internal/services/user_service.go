package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/models"
)

// ErrUserExists is returned when registering an email that is taken.
var ErrUserExists = errors.New("User already exists")

// UserService defines the interface for user-related operations
type UserService interface {
	GetUsers() ([]models.User, error)
	GetUserByID(id uint) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	CreateUser(req models.RegisterRequest) (models.User, error)
	DeleteUser(id uint) error
	IsUserAdmin(userID uint) (bool, error)
}

// userService implements the UserService interface
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) UserService {
	return &userService{
		db: db,
	}
}

// GetUsers returns all users
func (s *userService) GetUsers() ([]models.User, error) {
	users := []models.User{}
	result := s.db.Order("id").Find(&users)
	return users, result.Error
}

func (s *userService) GetUserByID(id uint) (models.User, error) {
	var user models.User
	result := s.db.First(&user, id)
	return user, result.Error
}

// GetUserByEmail returns a user by email, case-insensitively
func (s *userService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	result := s.db.Where("email = ?", normalizeEmail(email)).First(&user)
	return user, result.Error
}

// CreateUser validates the request, hashes the password and stores the user
func (s *userService) CreateUser(req models.RegisterRequest) (models.User, error) {
	errs := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = "Please enter a valid email address"
	}
	if len(req.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) > 0 {
		return models.User{}, &ValidationError{Fields: errs}
	}

	// Check for an existing account
	if _, err := s.GetUserByEmail(req.Email); err == nil {
		return models.User{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleUser
	if req.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	user := models.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          normalizeEmail(req.Email),
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		HashedPassword: string(hashedPassword),
		Role:           role,
	}
	result := s.db.Create(&user)
	return user, result.Error
}

// DeleteUser removes a user and everything the user owns
func (s *userService) DeleteUser(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.FamilyMember{},
			&models.Pet{},
			&models.ElderlyPerson{},
			&models.Appointment{},
			&models.Payment{},
		}
		for _, m := range owned {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// IsUserAdmin checks if a user has admin role
func (s *userService) IsUserAdmin(userID uint) (bool, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
