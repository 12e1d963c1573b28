package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

type AppointmentHandler struct {
	appointmentService services.AppointmentService
	changes            changes
}

func NewAppointmentHandler(appointmentService services.AppointmentService, hub websocket.Broadcaster, reports services.ReportService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
		changes:            changes{hub: hub, reports: reports},
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{owner:[0-9]+}/appointments", h.GetAppointments).Methods("GET")
	router.HandleFunc("/users/{owner:[0-9]+}/appointments", h.CreateAppointment).Methods("POST")
	router.HandleFunc("/users/{owner:[0-9]+}/appointments/{id:[0-9]+}", h.UpdateAppointment).Methods("PUT")
	router.HandleFunc("/users/{owner:[0-9]+}/appointments/{id:[0-9]+}", h.DeleteAppointment).Methods("DELETE")
}

func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}

	appts, err := h.appointmentService.GetAppointmentsByUserID(owner)
	if err != nil {
		writeServiceError(w, err, "Failed to load appointments")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// CreateAppointment books a new appointment in the scheduled state
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	var appt models.Appointment
	if !decode(w, r, &appt) {
		return
	}
	appt.UserID = owner

	created, err := h.appointmentService.CreateAppointment(appt)
	if err != nil {
		writeServiceError(w, err, "Failed to schedule appointment")
		return
	}

	h.changes.publish(r.Context(), "appointment", "created", created.ID, owner)
	writeJSON(w, http.StatusCreated, created)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var appt models.Appointment
	if !decode(w, r, &appt) {
		return
	}

	updated, err := h.appointmentService.UpdateAppointment(id, owner, appt)
	if err != nil {
		writeServiceError(w, err, "Failed to update appointment")
		return
	}

	h.changes.publish(r.Context(), "appointment", "updated", id, owner)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAppointment cancels an appointment
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.appointmentService.DeleteAppointment(id, owner); err != nil {
		writeServiceError(w, err, "Failed to cancel appointment")
		return
	}

	h.changes.publish(r.Context(), "appointment", "deleted", id, owner)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled successfully"})
}
