package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"p2v/internal/common"
	"p2v/internal/domain/model"
	"p2v/internal/platform/logger"
	"p2v/internal/platform/metrics"
)

type stubResolver struct {
	users map[string]*model.User
	got   string
}

func (s *stubResolver) CurrentUser(_ context.Context, token string) (*model.User, error) {
	s.got = token
	u, ok := s.users[token]
	if !ok {
		return nil, common.ErrCouldNotValidate
	}
	return u, nil
}

type countingRecorder struct {
	metrics.Nop
	denied int
}

func (c *countingRecorder) RecordAccessDenied() { c.denied++ }

func echoUser(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusInternalServerError)
		return
	}
	w.Write([]byte(u.Email))
}

func TestAuthenticator(t *testing.T) {
	resolver := &stubResolver{users: map[string]*model.User{
		"good": {ID: "1", Email: "a@x.com", Role: model.RoleUser},
	}}
	h := Authenticator(resolver, logger.Nop())(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer good", http.StatusOK, "a@x.com"},
		{"lowercase scheme", "bearer good", http.StatusOK, "a@x.com"},
		{"missing header", "", http.StatusUnauthorized, "could not validate credentials"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "could not validate credentials"},
		{"bad token", "Bearer bad", http.StatusUnauthorized, "could not validate credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	rec := &countingRecorder{}
	guard := RequireRole(rec, model.RoleStaff, model.RoleAdmin)(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		user   *model.User
		status int
	}{
		{"staff", &model.User{Email: "s@x.com", Role: model.RoleStaff}, http.StatusOK},
		{"admin", &model.User{Email: "a@x.com", Role: model.RoleAdmin}, http.StatusOK},
		{"user", &model.User{Email: "u@x.com", Role: model.RoleUser}, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.user != nil {
				req = req.WithContext(context.WithValue(req.Context(), UserCtxKey, tt.user))
			}
			w := httptest.NewRecorder()
			guard.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusForbidden && !strings.Contains(w.Body.String(), "not authorized") {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}

	if rec.denied != 1 {
		t.Errorf("denied = %d, want 1", rec.denied)
	}
}
