package models

import "time"

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// ElderlyPerson is a dependent under elderly care. The emergency contact is
// stored inline with an emergency_contact_ column prefix.
type ElderlyPerson struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Name              string           `json:"name"`
	Age               int              `json:"age"`
	MedicalConditions []string         `json:"medicalConditions" gorm:"serializer:json"`
	AdditionalNotes   string           `json:"additionalNotes"`
	EmergencyContact  EmergencyContact `json:"emergencyContact" gorm:"embedded;embeddedPrefix:emergency_contact_"`
	UserID            uint             `json:"userId" gorm:"column:user_id;index"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

func (ElderlyPerson) TableName() string {
	return "elderly_persons"
}
