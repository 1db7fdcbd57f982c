package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/tablemate/config"
	"github.com/yeremiapane/tablemate/database"
	"github.com/yeremiapane/tablemate/router"
	"github.com/yeremiapane/tablemate/utils"
)

const (
	adminEmail    = "admin@tablemate.test"
	adminPassword = "admin-password"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func testConfig() config.Config {
	return config.Config{
		CORSOrigin: "http://localhost:5173",
		JWTSecret:  "controllers-test-secret",
		JWTTTL:     time.Hour,
		Booking:    config.Booking{OpenHour: 17, LastSeatingHour: 22, SlotMinutes: 30, Timezone: "UTC"},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, database.SeedAdmin(db, config.Admin{Name: "Admin", Email: adminEmail, Password: adminPassword}))

	return &testServer{t: t, router: router.SetupRouter(db, router.Options{Config: testConfig()})}
}

// do sends body as JSON and decodes the envelope; out, when given, receives data.
func (s *testServer) do(method, path, token string, body interface{}, out interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
		if out != nil && len(env.Data) > 0 {
			require.NoError(s.t, json.Unmarshal(env.Data, out))
		}
	}
	return w, env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	var result struct {
		Token string `json:"token"`
	}
	w, _ := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, &result)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return result.Token
}

func (s *testServer) adminToken() string {
	return s.login(adminEmail, adminPassword)
}

func (s *testServer) register(name, email string) string {
	s.t.Helper()
	var result struct {
		Token string `json:"token"`
	}
	w, _ := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	}, &result)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return result.Token
}

// nextSeating is tomorrow at 19:00 UTC, always a bookable slot.
func nextSeating() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func booking(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":       "Ana Wijaya",
		"email":      email,
		"phone":      "+62 812 0000 0000",
		"date_time":  nextSeating().Format(time.RFC3339),
		"party_size": 4,
		"table_type": "window",
	}
}

type reservationResp struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Version   string `json:"version"`
	PartySize int    `json:"party_size"`
	Customer  struct {
		ID     string `json:"id"`
		Email  string `json:"email"`
		Visits int    `json:"visits"`
	} `json:"customer"`
}

func (s *testServer) book(token, email string) reservationResp {
	s.t.Helper()
	var r reservationResp
	w, _ := s.do(http.MethodPost, "/reservations", token, booking(email), &r)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return r
}
