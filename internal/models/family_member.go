package models

import (
	"time"
)

// FamilyMember is a relative managed by a user account
type FamilyMember struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	Relationship string    `json:"relationship"`
	UserID       uint      `json:"userId" gorm:"column:user_id;index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"column:updated_at"`
}

// TableName specifies the table name for FamilyMember model
func (FamilyMember) TableName() string {
	return "family_members"
}
