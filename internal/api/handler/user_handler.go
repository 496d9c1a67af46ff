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

type UserHandler struct {
	userService  *service.UserService
	authenticate Middleware
	metrics      metrics.Recorder
	log          *logger.Logger
}

func NewUserHandler(us *service.UserService, authenticate Middleware, rec metrics.Recorder, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: us, authenticate: authenticate, metrics: rec, log: log}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/get/user/{id}", h.getUser)

	r.Group(func(authed chi.Router) {
		authed.Use(h.authenticate)
		authed.Get("/me", h.me)

		authed.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireRole(h.metrics, service.UserAdminRoles...))
			admin.Post("/admin/users", h.createUser)
		})
	})
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.log)
	if !ok {
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentUser(w, r, h.log)
	if !ok {
		return
	}
	var req service.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.userService.CreateUser(r.Context(), admin, req)
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}
