package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/models"
)

// CatalogService manages the care services offered to users
type CatalogService interface {
	GetServices() ([]models.CareService, error)
	UpdateService(id uint, svc models.CareService) (models.CareService, error)
	DeleteService(id uint) error
}

type catalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) GetServices() ([]models.CareService, error) {
	services := []models.CareService{}
	result := s.db.Order("id").Find(&services)
	return services, result.Error
}

func (s *catalogService) UpdateService(id uint, svc models.CareService) (models.CareService, error) {
	var existing models.CareService
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.CareService{}, err
	}

	errs := map[string]string{}
	if strings.TrimSpace(svc.Name) == "" {
		errs["name"] = "Service name is required"
	}
	if svc.Price < 0 {
		errs["price"] = "Price cannot be negative"
	}
	if len(errs) > 0 {
		return models.CareService{}, &ValidationError{Fields: errs}
	}

	existing.Name = strings.TrimSpace(svc.Name)
	existing.Description = svc.Description
	existing.Price = svc.Price
	existing.Active = svc.Active

	// Select("*") so a false Active is written too
	result := s.db.Select("*").Save(&existing)
	return existing, result.Error
}

func (s *catalogService) DeleteService(id uint) error {
	result := s.db.Delete(&models.CareService{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
