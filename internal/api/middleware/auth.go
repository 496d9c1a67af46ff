package middleware

import (
	"context"
	"errors"
	"net/http"

	"p2v/internal/app/service"
	"p2v/internal/common"
	"p2v/internal/domain/model"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserCtxKey contextKey = "currentUser"

// CurrentUserResolver turns a bearer token into a stored user.
type CurrentUserResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// Authenticator requires "Authorization: Bearer <token>" and puts the
// resolved user in the request context.
func Authenticator(resolver CurrentUserResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				common.RespondWithAppError(w, log, common.ErrCouldNotValidate)
				return
			}

			user, err := resolver.CurrentUser(r.Context(), token)
			if err != nil {
				common.RespondWithAppError(w, log, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after Authenticator.
func RequireRole(rec metrics.Recorder, roles ...string) func(http.Handler) http.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := UserFromContext(r.Context())
			if err := service.RequireRole(user, roles...); err != nil {
				if errors.Is(err, common.ErrForbidden) {
					rec.RecordAccessDenied()
				}
				common.RespondWithAppError(w, nil, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok && user != nil
}
