package handler

import (
	"net/http"

	"p2v/internal/app/service"
	"p2v/internal/common"
	"p2v/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

type VoteHandler struct {
	voteService  *service.VoteService
	authenticate Middleware
	log          *logger.Logger
}

func NewVoteHandler(vs *service.VoteService, authenticate Middleware, log *logger.Logger) *VoteHandler {
	return &VoteHandler{voteService: vs, authenticate: authenticate, log: log}
}

func (h *VoteHandler) RegisterRoutes(r chi.Router) {
	r.With(h.authenticate).Post("/add/vote/{placeID}", h.castVote)
}

func (h *VoteHandler) castVote(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.log)
	if !ok {
		return
	}
	var req service.VoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.voteService.CastVote(r.Context(), user, chi.URLParam(r, "placeID"), req); err != nil {
		common.RespondWithAppError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
