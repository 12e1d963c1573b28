package models

import "time"

type Pet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Breed     string    `json:"breed"`
	Age       int       `json:"age"`
	UserID    uint      `json:"userId" gorm:"column:user_id;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
