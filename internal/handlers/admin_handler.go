package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vikasavnish/carecoord/internal/models"
	"github.com/vikasavnish/carecoord/internal/services"
	"github.com/vikasavnish/carecoord/internal/websocket"
)

// AdminHandler serves the service catalog and the dashboard
type AdminHandler struct {
	catalogService services.CatalogService
	reports        services.ReportService
	changes        changes
}

func NewAdminHandler(catalogService services.CatalogService, hub websocket.Broadcaster, reports services.ReportService) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		reports:        reports,
		changes:        changes{hub: hub, reports: reports},
	}
}

// RegisterRoutes expects an admin-only router
func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/services", h.GetServices).Methods("GET")
	router.HandleFunc("/services/{id:[0-9]+}", h.UpdateService).Methods("PUT")
	router.HandleFunc("/services/{id:[0-9]+}", h.DeleteService).Methods("DELETE")
	router.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
}

func (h *AdminHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.catalogService.GetServices()
	if err != nil {
		writeServiceError(w, err, "Failed to load services")
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}

func (h *AdminHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var svc models.CareService
	if !decode(w, r, &svc) {
		return
	}

	updated, err := h.catalogService.UpdateService(id, svc)
	if err != nil {
		writeServiceError(w, err, "Failed to update service")
		return
	}

	h.changes.publish(r.Context(), "service", "updated", id, 0)
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteService(id); err != nil {
		writeServiceError(w, err, "Failed to delete service")
		return
	}

	h.changes.publish(r.Context(), "service", "deleted", id, 0)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Service deleted successfully"})
}

// GetDashboard returns the cached summary, computing it on a miss
func (h *AdminHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
