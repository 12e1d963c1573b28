package models

import "time"

const PaymentCompleted = "completed"

// Payment records a processed service purchase. Card data is limited to
// the last four digits.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Service       string    `json:"service"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	CardLast4     string    `json:"cardLast4"`
	TransactionID string    `json:"transactionId" gorm:"uniqueIndex"`
	Status        string    `json:"status"`
	UserID        uint      `json:"userId" gorm:"column:user_id;index"`
	CreatedAt     time.Time `json:"createdAt"`
}
