package handler

import (
	"net/http"

	"p2v/internal/api/middleware"
	"p2v/internal/app/service"
	"p2v/internal/common"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

type PlaceHandler struct {
	placeService *service.PlaceService
	authenticate Middleware
	metrics      metrics.Recorder
	log          *logger.Logger
}

func NewPlaceHandler(ps *service.PlaceService, authenticate Middleware, rec metrics.Recorder, log *logger.Logger) *PlaceHandler {
	return &PlaceHandler{placeService: ps, authenticate: authenticate, metrics: rec, log: log}
}

func (h *PlaceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/all/place", h.listPlaces) // optional ?page=1&pageSize=20

	r.Group(func(authed chi.Router) {
		authed.Use(h.authenticate)
		authed.Get("/place/{id}", h.getPlace)

		authed.Group(func(editor chi.Router) {
			editor.Use(middleware.RequireRole(h.metrics, service.PlaceEditorRoles...))
			editor.Post("/add/place", h.createPlace)
			editor.Post("/place/update/{id}", h.updatePlace)
			editor.Post("/place/delete/{id}", h.deletePlace)
		})
	})
}

func (h *PlaceHandler) listPlaces(w http.ResponseWriter, r *http.Request) {
	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	pageSize := parsePositiveInt(r.URL.Query().Get("pageSize"), 0)

	places, err := h.placeService.ListPlaces(r.Context(), page, pageSize)
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, places)
}

func (h *PlaceHandler) getPlace(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.log)
	if !ok {
		return
	}
	detail, err := h.placeService.GetPlace(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *PlaceHandler) createPlace(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.log)
	if !ok {
		return
	}
	var req service.PlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	place, err := h.placeService.CreatePlace(r.Context(), user, req)
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, place)
}

func (h *PlaceHandler) updatePlace(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	place, err := h.placeService.UpdatePlace(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, place)
}

func (h *PlaceHandler) deletePlace(w http.ResponseWriter, r *http.Request) {
	if err := h.placeService.DeletePlace(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"success": "The place has been deleted."})
}
