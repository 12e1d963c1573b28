package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/models"
)

type AppointmentService interface {
	GetAppointmentsByUserID(userID uint) ([]models.Appointment, error)
	CreateAppointment(appt models.Appointment) (models.Appointment, error)
	UpdateAppointment(id uint, userID uint, appt models.Appointment) (models.Appointment, error)
	DeleteAppointment(id uint, userID uint) error
	// CountByService returns how many appointments book each service type.
	CountByService() (map[string]int64, error)
}

type appointmentService struct {
	db     *gorm.DB
	schema entity.Schema
}

// NewAppointmentService validates dates against now; pass nil for time.Now.
func NewAppointmentService(db *gorm.DB, now func() time.Time) AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &appointmentService{db: db, schema: entity.Appointment(now)}
}

func (s *appointmentService) validate(a models.Appointment) error {
	return validate(s.schema, entity.Fields{
		"appointmentType": a.AppointmentType,
		"selectedPerson":  a.SelectedPerson,
		"date":            a.Date,
		"time":            a.Time,
		"serviceType":     a.ServiceType,
		"notes":           a.Notes,
	})
}

func (s *appointmentService) GetAppointmentsByUserID(userID uint) ([]models.Appointment, error) {
	appts := []models.Appointment{}
	result := s.db.Where("user_id = ?", userID).Order("date, time").Find(&appts)
	return appts, result.Error
}

func (s *appointmentService) CreateAppointment(appt models.Appointment) (models.Appointment, error) {
	if err := s.validate(appt); err != nil {
		return models.Appointment{}, err
	}
	appt.ID = 0
	appt.Status = models.AppointmentScheduled
	result := s.db.Create(&appt)
	return appt, result.Error
}

func (s *appointmentService) UpdateAppointment(id uint, userID uint, appt models.Appointment) (models.Appointment, error) {
	var existing models.Appointment
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.Appointment{}, err
	}
	if existing.UserID != userID {
		return models.Appointment{}, ErrNotFound
	}
	if err := s.validate(appt); err != nil {
		return models.Appointment{}, err
	}

	existing.AppointmentType = appt.AppointmentType
	existing.SelectedPerson = appt.SelectedPerson
	existing.Date = appt.Date
	existing.Time = appt.Time
	existing.ServiceType = appt.ServiceType
	existing.Notes = appt.Notes

	result := s.db.Save(&existing)
	return existing, result.Error
}

func (s *appointmentService) DeleteAppointment(id uint, userID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Appointment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *appointmentService) CountByService() (map[string]int64, error) {
	var rows []struct {
		ServiceType string
		Count       int64
	}
	err := s.db.Model(&models.Appointment{}).
		Select("service_type, count(*) as count").
		Group("service_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	usage := make(map[string]int64, len(rows))
	for _, r := range rows {
		usage[r.ServiceType] = r.Count
	}
	return usage, nil
}
