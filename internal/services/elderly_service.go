package services

import (
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/models"
)

type ElderlyService interface {
	GetElderlyByUserID(userID uint) ([]models.ElderlyPerson, error)
	CreateElderly(person models.ElderlyPerson) (models.ElderlyPerson, error)
	UpdateElderly(id uint, userID uint, person models.ElderlyPerson) (models.ElderlyPerson, error)
	DeleteElderly(id uint, userID uint) error
}

type elderlyService struct {
	db     *gorm.DB
	schema entity.Schema
}

func NewElderlyService(db *gorm.DB) ElderlyService {
	return &elderlyService{db: db, schema: entity.Elderly()}
}

func (s *elderlyService) validate(p models.ElderlyPerson) error {
	return validate(s.schema, entity.Fields{
		"name":                          p.Name,
		"age":                           p.Age,
		"medicalConditions":             p.MedicalConditions,
		"additionalNotes":               p.AdditionalNotes,
		"emergencyContact.name":         p.EmergencyContact.Name,
		"emergencyContact.relationship": p.EmergencyContact.Relationship,
		"emergencyContact.phone":        p.EmergencyContact.Phone,
		"emergencyContact.email":        p.EmergencyContact.Email,
	})
}

func (s *elderlyService) GetElderlyByUserID(userID uint) ([]models.ElderlyPerson, error) {
	persons := []models.ElderlyPerson{}
	result := s.db.Where("user_id = ?", userID).Order("id").Find(&persons)
	return persons, result.Error
}

func (s *elderlyService) CreateElderly(person models.ElderlyPerson) (models.ElderlyPerson, error) {
	if err := s.validate(person); err != nil {
		return models.ElderlyPerson{}, err
	}
	if person.MedicalConditions == nil {
		person.MedicalConditions = []string{}
	}
	person.ID = 0
	result := s.db.Create(&person)
	return person, result.Error
}

func (s *elderlyService) UpdateElderly(id uint, userID uint, person models.ElderlyPerson) (models.ElderlyPerson, error) {
	var existing models.ElderlyPerson
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.ElderlyPerson{}, err
	}
	if existing.UserID != userID {
		return models.ElderlyPerson{}, ErrNotFound
	}
	if err := s.validate(person); err != nil {
		return models.ElderlyPerson{}, err
	}

	existing.Name = person.Name
	existing.Age = person.Age
	existing.MedicalConditions = person.MedicalConditions
	if existing.MedicalConditions == nil {
		existing.MedicalConditions = []string{}
	}
	existing.AdditionalNotes = person.AdditionalNotes
	existing.EmergencyContact = person.EmergencyContact

	result := s.db.Save(&existing)
	return existing, result.Error
}

func (s *elderlyService) DeleteElderly(id uint, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.ElderlyPerson{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
