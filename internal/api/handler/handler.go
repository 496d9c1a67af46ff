package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"p2v/internal/api/middleware"
	"p2v/internal/common"
	"p2v/internal/domain/model"
	"p2v/internal/platform/logger"
)

// Middleware is a chi-compatible request wrapper.
type Middleware = func(http.Handler) http.Handler

const maxBodyBytes = 1 << 20

// decodeJSON reads the body into dst. Fields dst does not declare are ignored.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request, log *logger.Logger) (*model.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.RespondWithAppError(w, log, common.ErrCouldNotValidate)
		return nil, false
	}
	return user, true
}

func parsePositiveInt(s string, defaultVal int) int {
	if val, err := strconv.Atoi(s); err == nil && val > 0 {
		return val
	}
	return defaultVal
}
