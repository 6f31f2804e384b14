package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tempmonitor/internal/models"
	"tempmonitor/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/secure", h.requireAuth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "username": c.GetString(ctxKeyUsername)})
	})
	return r
}

func TestRequireAuth_Rejections(t *testing.T) {
	cases := []struct {
		name        string
		header      string
		validateErr error
		wantMsg     string
	}{
		{
			name:        "missing header",
			header:      "",
			validateErr: &service.UnauthorizedError{Reason: service.ReasonMissing},
			wantMsg:     "missing token",
		},
		{
			name:        "wrong scheme",
			header:      "Token abc",
			validateErr: &service.UnauthorizedError{Reason: service.ReasonMissing},
			wantMsg:     "missing token",
		},
		{
			name:        "bearer without token",
			header:      "Bearer",
			validateErr: &service.UnauthorizedError{Reason: service.ReasonMissing},
			wantMsg:     "missing token",
		},
		{
			name:        "unknown token",
			header:      "Bearer nope",
			validateErr: &service.UnauthorizedError{Reason: service.ReasonInvalid},
			wantMsg:     "invalid token",
		},
		{
			name:        "expired token",
			header:      "Bearer stale",
			validateErr: &service.UnauthorizedError{Reason: service.ReasonExpired},
			wantMsg:     "token expired",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessions := &mockSessions{validateErr: tc.validateErr}
			r := newMiddlewareOnlyRouter(&service.Service{Sessions: sessions})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401 (body=%s)", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.wantMsg)
			}
		})
	}
}

func TestRequireAuth_SuccessSetsUsernameAndProceeds(t *testing.T) {
	sessions := &mockSessions{validateSess: models.Session{Token: "good-token", Username: "admin"}}
	r := newMiddlewareOnlyRouter(&service.Service{Sessions: sessions})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		OK       bool   `json:"ok"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.Username != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if sessions.lastValidateToken != "good-token" {
		t.Fatalf("Validate got %q, want %q", sessions.lastValidateToken, "good-token")
	}
}
