package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

type ElderlyHandler struct {
	elderlyService services.ElderlyService
	changes        changes
}

func NewElderlyHandler(elderlyService services.ElderlyService, hub websocket.Broadcaster, reports services.ReportService) *ElderlyHandler {
	return &ElderlyHandler{
		elderlyService: elderlyService,
		changes:        changes{hub: hub, reports: reports},
	}
}

func (h *ElderlyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{owner:[0-9]+}/elderly", h.GetElderly).Methods("GET")
	router.HandleFunc("/users/{owner:[0-9]+}/elderly", h.CreateElderly).Methods("POST")
	router.HandleFunc("/users/{owner:[0-9]+}/elderly/{id:[0-9]+}", h.UpdateElderly).Methods("PUT")
	router.HandleFunc("/users/{owner:[0-9]+}/elderly/{id:[0-9]+}", h.DeleteElderly).Methods("DELETE")
}

func (h *ElderlyHandler) GetElderly(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}

	persons, err := h.elderlyService.GetElderlyByUserID(owner)
	if err != nil {
		writeServiceError(w, err, "Failed to load elderly persons")
		return
	}
	writeJSON(w, http.StatusOK, persons)
}

func (h *ElderlyHandler) CreateElderly(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	var person models.ElderlyPerson
	if !decode(w, r, &person) {
		return
	}
	person.UserID = owner

	created, err := h.elderlyService.CreateElderly(person)
	if err != nil {
		writeServiceError(w, err, "Failed to add elderly person")
		return
	}

	h.changes.publish(r.Context(), "elderly", "created", created.ID, owner)
	writeJSON(w, http.StatusCreated, created)
}

func (h *ElderlyHandler) UpdateElderly(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var person models.ElderlyPerson
	if !decode(w, r, &person) {
		return
	}

	updated, err := h.elderlyService.UpdateElderly(id, owner, person)
	if err != nil {
		writeServiceError(w, err, "Failed to update elderly person")
		return
	}

	h.changes.publish(r.Context(), "elderly", "updated", id, owner)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ElderlyHandler) DeleteElderly(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.elderlyService.DeleteElderly(id, owner); err != nil {
		writeServiceError(w, err, "Failed to delete elderly person")
		return
	}

	h.changes.publish(r.Context(), "elderly", "deleted", id, owner)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Elderly person deleted successfully"})
}
