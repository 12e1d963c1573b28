package models

import "time"

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
)

// Appointment books a service for a family member, pet or elderly person.
// Date is YYYY-MM-DD and Time is HH:MM, both as entered.
type Appointment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	AppointmentType string    `json:"appointmentType"`
	SelectedPerson  string    `json:"selectedPerson"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	ServiceType     string    `json:"serviceType"`
	Notes           string    `json:"notes"`
	Status          string    `json:"status" gorm:"default:scheduled"`
	UserID          uint      `json:"userId" gorm:"column:user_id;index"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
