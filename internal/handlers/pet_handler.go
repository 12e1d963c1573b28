package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

// PetHandler serves the pets of a user
type PetHandler struct {
	petService services.PetService
	changes    changes
}

func NewPetHandler(petService services.PetService, hub websocket.Broadcaster, reports services.ReportService) *PetHandler {
	return &PetHandler{
		petService: petService,
		changes:    changes{hub: hub, reports: reports},
	}
}

func (h *PetHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users/{owner:[0-9]+}/pets", h.GetPets).Methods("GET")
	router.HandleFunc("/users/{owner:[0-9]+}/pets", h.CreatePet).Methods("POST")
	router.HandleFunc("/users/{owner:[0-9]+}/pets/{id:[0-9]+}", h.UpdatePet).Methods("PUT")
	router.HandleFunc("/users/{owner:[0-9]+}/pets/{id:[0-9]+}", h.DeletePet).Methods("DELETE")
}

func (h *PetHandler) GetPets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}

	pets, err := h.petService.GetPetsByUserID(owner)
	if err != nil {
		writeServiceError(w, err, "Failed to load pets")
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	var pet models.Pet
	if !decode(w, r, &pet) {
		return
	}
	pet.UserID = owner

	created, err := h.petService.CreatePet(pet)
	if err != nil {
		writeServiceError(w, err, "Failed to add pet")
		return
	}

	h.changes.publish(r.Context(), "pet", "created", created.ID, owner)
	writeJSON(w, http.StatusCreated, created)
}

func (h *PetHandler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var pet models.Pet
	if !decode(w, r, &pet) {
		return
	}

	updated, err := h.petService.UpdatePet(id, owner, pet)
	if err != nil {
		writeServiceError(w, err, "Failed to update pet")
		return
	}

	h.changes.publish(r.Context(), "pet", "updated", id, owner)
	writeJSON(w, http.StatusOK, updated)
}

func (h *PetHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.petService.DeletePet(id, owner); err != nil {
		writeServiceError(w, err, "Failed to delete pet")
		return
	}

	h.changes.publish(r.Context(), "pet", "deleted", id, owner)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pet deleted successfully"})
}
