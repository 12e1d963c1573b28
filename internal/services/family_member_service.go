package services

import (
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/models"
)

// FamilyMemberService defines the interface for family member operations
type FamilyMemberService interface {
	GetFamilyMembersByUserID(userID uint) ([]models.FamilyMember, error)
	CreateFamilyMember(member models.FamilyMember) (models.FamilyMember, error)
	UpdateFamilyMember(id uint, userID uint, member models.FamilyMember) (models.FamilyMember, error)
	DeleteFamilyMember(id uint, userID uint) error
	GetFamilyMemberByID(id uint) (models.FamilyMember, error)
}

// familyMemberService implements the FamilyMemberService interface
type familyMemberService struct {
	db     *gorm.DB
	schema entity.Schema
}

// NewFamilyMemberService creates a new family member service
func NewFamilyMemberService(db *gorm.DB) FamilyMemberService {
	return &familyMemberService{
		db:     db,
		schema: entity.Family(),
	}
}

func (s *familyMemberService) validate(member models.FamilyMember) error {
	return validate(s.schema, entity.Fields{
		"name":         member.Name,
		"age":          member.Age,
		"relationship": member.Relationship,
	})
}

// GetFamilyMembersByUserID returns all family members for a user
func (s *familyMemberService) GetFamilyMembersByUserID(userID uint) ([]models.FamilyMember, error) {
	members := []models.FamilyMember{}
	result := s.db.Where("user_id = ?", userID).Order("id").Find(&members)
	return members, result.Error
}

// CreateFamilyMember creates a new family member
func (s *familyMemberService) CreateFamilyMember(member models.FamilyMember) (models.FamilyMember, error) {
	if err := s.validate(member); err != nil {
		return models.FamilyMember{}, err
	}
	member.ID = 0
	result := s.db.Create(&member)
	return member, result.Error
}

// UpdateFamilyMember updates a family member
func (s *familyMemberService) UpdateFamilyMember(id uint, userID uint, member models.FamilyMember) (models.FamilyMember, error) {
	var existingMember models.FamilyMember
	if err := s.db.First(&existingMember, id).Error; err != nil {
		return models.FamilyMember{}, err
	}

	// Verify ownership
	if existingMember.UserID != userID {
		return models.FamilyMember{}, ErrNotFound
	}

	if err := s.validate(member); err != nil {
		return models.FamilyMember{}, err
	}

	// Update allowed fields
	existingMember.Name = member.Name
	existingMember.Age = member.Age
	existingMember.Relationship = member.Relationship

	result := s.db.Save(&existingMember)
	return existingMember, result.Error
}

// DeleteFamilyMember deletes a family member
func (s *familyMemberService) DeleteFamilyMember(id uint, userID uint) error {
	var member models.FamilyMember
	if err := s.db.First(&member, id).Error; err != nil {
		return err
	}

	// Verify ownership
	if member.UserID != userID {
		return ErrNotFound
	}

	return s.db.Delete(&models.FamilyMember{}, id).Error
}

// GetFamilyMemberByID returns a family member by ID
func (s *familyMemberService) GetFamilyMemberByID(id uint) (models.FamilyMember, error) {
	var member models.FamilyMember
	result := s.db.First(&member, id)
	return member, result.Error
}
