package services

import (
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/models"
)

type PetService interface {
	GetPetsByUserID(userID uint) ([]models.Pet, error)
	CreatePet(pet models.Pet) (models.Pet, error)
	UpdatePet(id uint, userID uint, pet models.Pet) (models.Pet, error)
	DeletePet(id uint, userID uint) error
}

type petService struct {
	db     *gorm.DB
	schema entity.Schema
}

func NewPetService(db *gorm.DB) PetService {
	return &petService{db: db, schema: entity.Pet()}
}

func (s *petService) validate(pet models.Pet) error {
	return validate(s.schema, entity.Fields{
		"name":  pet.Name,
		"type":  pet.Type,
		"breed": pet.Breed,
		"age":   pet.Age,
	})
}

func (s *petService) GetPetsByUserID(userID uint) ([]models.Pet, error) {
	pets := []models.Pet{}
	result := s.db.Where("user_id = ?", userID).Order("id").Find(&pets)
	return pets, result.Error
}

func (s *petService) CreatePet(pet models.Pet) (models.Pet, error) {
	if err := s.validate(pet); err != nil {
		return models.Pet{}, err
	}
	pet.ID = 0
	result := s.db.Create(&pet)
	return pet, result.Error
}

func (s *petService) UpdatePet(id uint, userID uint, pet models.Pet) (models.Pet, error) {
	existing, err := s.owned(id, userID)
	if err != nil {
		return models.Pet{}, err
	}
	if err := s.validate(pet); err != nil {
		return models.Pet{}, err
	}

	existing.Name = pet.Name
	existing.Type = pet.Type
	existing.Breed = pet.Breed
	existing.Age = pet.Age

	result := s.db.Save(&existing)
	return existing, result.Error
}

func (s *petService) DeletePet(id uint, userID uint) error {
	if _, err := s.owned(id, userID); err != nil {
		return err
	}
	return s.db.Delete(&models.Pet{}, id).Error
}

// owned loads a pet and checks that it belongs to userID
func (s *petService) owned(id uint, userID uint) (models.Pet, error) {
	var pet models.Pet
	if err := s.db.First(&pet, id).Error; err != nil {
		return models.Pet{}, err
	}
	if pet.UserID != userID {
		return models.Pet{}, ErrNotFound
	}
	return pet, nil
}
