package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

type FamilyMemberHandler struct {
	familyService services.FamilyMemberService
	changes       changes
}

func NewFamilyMemberHandler(familyService services.FamilyMemberService, hub websocket.Broadcaster, reports services.ReportService) *FamilyMemberHandler {
	return &FamilyMemberHandler{
		familyService: familyService,
		changes:       changes{hub: hub, reports: reports},
	}
}

func (h *FamilyMemberHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/family/{owner:[0-9]+}/all", h.GetFamilyMembers).Methods("GET")
	router.HandleFunc("/family/add/{owner:[0-9]+}", h.CreateFamilyMember).Methods("POST")
	router.HandleFunc("/family/update/{id:[0-9]+}/{owner:[0-9]+}", h.UpdateFamilyMember).Methods("PUT")
	router.HandleFunc("/family/delete/{id:[0-9]+}/{owner:[0-9]+}", h.DeleteFamilyMember).Methods("DELETE")
}

// GetFamilyMembers retrieves all family members of the owner, wrapped in
// a "members" object
func (h *FamilyMemberHandler) GetFamilyMembers(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}

	members, err := h.familyService.GetFamilyMembersByUserID(owner)
	if err != nil {
		writeServiceError(w, err, "Failed to load members")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

// CreateFamilyMember creates a new family member
func (h *FamilyMemberHandler) CreateFamilyMember(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}

	// Parse request body
	var member models.FamilyMember
	if !decode(w, r, &member) {
		return
	}
	member.UserID = owner

	createdMember, err := h.familyService.CreateFamilyMember(member)
	if err != nil {
		writeServiceError(w, err, "Failed to add member")
		return
	}

	h.changes.publish(r.Context(), "family", "created", createdMember.ID, owner)
	writeJSON(w, http.StatusCreated, createdMember)
}

// UpdateFamilyMember updates an existing family member
func (h *FamilyMemberHandler) UpdateFamilyMember(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var member models.FamilyMember
	if !decode(w, r, &member) {
		return
	}

	updatedMember, err := h.familyService.UpdateFamilyMember(id, owner, member)
	if err != nil {
		writeServiceError(w, err, "Failed to update member")
		return
	}

	h.changes.publish(r.Context(), "family", "updated", id, owner)
	writeJSON(w, http.StatusOK, updatedMember)
}

// DeleteFamilyMember deletes a family member
func (h *FamilyMemberHandler) DeleteFamilyMember(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerScope(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.familyService.DeleteFamilyMember(id, owner); err != nil {
		writeServiceError(w, err, "Failed to delete member")
		return
	}

	h.changes.publish(r.Context(), "family", "deleted", id, owner)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Family member deleted successfully"})
}
