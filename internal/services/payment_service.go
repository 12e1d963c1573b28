package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/models"
)

type PaymentService interface {
	CreatePayment(payment models.Payment) (models.Payment, error)
	GetPaymentsByUserID(userID uint) ([]models.Payment, error)
}

type paymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) PaymentService {
	return &paymentService{db: db}
}

// CreatePayment records a payment for a catalog service. The amount is
// always the catalog price, whatever the client sent.
func (s *paymentService) CreatePayment(payment models.Payment) (models.Payment, error) {
	price, ok := catalogPrice(payment.Service)
	if !ok {
		return models.Payment{}, &ValidationError{Fields: map[string]string{"service": "Please select a service"}}
	}
	if len(payment.CardLast4) != 4 {
		return models.Payment{}, &ValidationError{Fields: map[string]string{"cardLast4": "Please enter a valid card number (13-19 digits)"}}
	}

	payment.ID = 0
	payment.Amount = price
	if payment.Method == "" {
		payment.Method = "credit_card"
	}
	if payment.TransactionID == "" {
		payment.TransactionID = uuid.NewString()
	}
	payment.Status = models.PaymentCompleted

	if err := s.db.Create(&payment).Error; err != nil {
		return models.Payment{}, fmt.Errorf("record payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) GetPaymentsByUserID(userID uint) ([]models.Payment, error) {
	payments := []models.Payment{}
	result := s.db.Where("user_id = ?", userID).Order("id").Find(&payments)
	return payments, result.Error
}

func catalogPrice(service string) (float64, bool) {
	for _, item := range entity.Catalog {
		if item.Name == service {
			return item.Price, true
		}
	}
	return 0, false
}
