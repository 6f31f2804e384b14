package handlers

import (
	"context"
	"net/http"

	"tempmonitor/internal/models"
	"tempmonitor/internal/repository"
	"tempmonitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service mocks ----

type mockSessions struct {
	loginSession models.Session
	loginErr     error
	validateSess models.Session
	validateErr  error

	lastLoginUsername string
	lastLoginPassword string
	lastValidateToken string
	revoked           []string
}

func (m *mockSessions) Login(username, password string) (models.Session, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginSession, m.loginErr
}

func (m *mockSessions) Validate(token string) (models.Session, error) {
	m.lastValidateToken = token
	if m.validateErr != nil {
		return models.Session{}, m.validateErr
	}
	sess := m.validateSess
	if sess.Token == "" {
		sess.Token = token
	}
	return sess, nil
}

func (m *mockSessions) Revoke(token string) {
	m.revoked = append(m.revoked, token)
}

type mockThresholds struct {
	created   models.Threshold
	createErr error
	list      []models.Threshold
	listErr   error
	latest    *models.Threshold
	latestErr error

	createCalls []float64
}

func (m *mockThresholds) Create(ctx context.Context, value float64) (models.Threshold, error) {
	m.createCalls = append(m.createCalls, value)
	return m.created, m.createErr
}

func (m *mockThresholds) List(ctx context.Context) ([]models.Threshold, error) {
	return m.list, m.listErr
}

func (m *mockThresholds) Latest(ctx context.Context) (*models.Threshold, error) {
	return m.latest, m.latestErr
}

type mockReadings struct {
	resp     []models.TriggeredReading
	err      error
	lastPage repository.ReadingPage
}

func (m *mockReadings) List(ctx context.Context, p repository.ReadingPage) ([]models.TriggeredReading, error) {
	m.lastPage = p
	return m.resp, m.err
}

type mockLive struct {
	snap models.TelemetrySnapshot
}

func (m *mockLive) Snapshot() models.TelemetrySnapshot { return m.snap }

// ---- Shared test helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
