package handler

import (
	"context"
	"mime"
	"net/http"

	"p2v/internal/app/service"
	"p2v/internal/common"
	"p2v/internal/domain/model"
	"p2v/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// AuthFlow is the part of service.AuthService the handlers use.
type AuthFlow interface {
	Register(ctx context.Context, req service.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req service.LoginRequest) (*service.TokenResponse, error)
	LoginWithGoogle(ctx context.Context, assertion string) (*service.TokenResponse, error)
}

type AuthHandler struct {
	authService AuthFlow
	log         *logger.Logger
}

func NewAuthHandler(authService AuthFlow, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/create/user", h.register)
	r.Post("/login", h.login)
	r.Post("/auth/google", h.googleLogin)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, user)
}

// login accepts an OAuth2 password form (username=email) or a JSON body.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		req.Email = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	default:
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	if req.Email == "" || req.Password == "" {
		common.RespondWithError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) googleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.GoogleLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		common.RespondWithError(w, http.StatusBadRequest, "token is required")
		return
	}
	resp, err := h.authService.LoginWithGoogle(r.Context(), req.Token)
	if err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
