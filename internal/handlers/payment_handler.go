package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

type PaymentHandler struct {
	paymentService services.PaymentService
	changes        changes
}

func NewPaymentHandler(paymentService services.PaymentService, hub websocket.Broadcaster, reports services.ReportService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		changes:        changes{hub: hub, reports: reports},
	}
}

func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{owner:[0-9]+}/payment", h.GetPayments).Methods("GET")
	router.HandleFunc("/users/{owner:[0-9]+}/payment", h.CreatePayment).Methods("POST")
}

// GetPayments lists the payment history of the owner
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}

	payments, err := h.paymentService.GetPaymentsByUserID(owner)
	if err != nil {
		writeServiceError(w, err, "Failed to load payments")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// CreatePayment records a payment. Only the card's last four digits ever
// reach the server.
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	var payment models.Payment
	if !decode(w, r, &payment) {
		return
	}
	payment.UserID = owner

	created, err := h.paymentService.CreatePayment(payment)
	if err != nil {
		writeServiceError(w, err, "Payment failed")
		return
	}

	h.changes.publish(r.Context(), "payment", "created", created.ID, owner)
	writeJSON(w, http.StatusCreated, created)
}
