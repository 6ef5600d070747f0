package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/models"
	"github.com/studiokarsa/trackline-backend/services/notify"
	"github.com/studiokarsa/trackline-backend/storage"
)

const (
	testSecret   = "test-session-secret"
	testUsername = "admin"
	testPassword = "correct-horse"
	testBaseURL  = "https://track.example.com"
)

type sentMessage struct {
	Phone string
	Body  string
}

// stubMessenger records every send. Safe for the dispatcher's background
// goroutines.
type stubMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (m *stubMessenger) Send(_ context.Context, phone, body string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{Phone: phone, Body: body})
	if m.fail {
		return nil, context.DeadlineExceeded
	}
	return json.RawMessage(`{"status":true}`), nil
}

func (m *stubMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *stubMessenger) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type testEnv struct {
	router    http.Handler
	db        database.Database
	gormDB    *gorm.DB
	messenger *stubMessenger
	blobs     storage.BlobStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))
	db := database.New(gormDB)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.UserRepo().Add(&models.User{
		ID:           uuid.New(),
		Username:     testUsername,
		PasswordHash: string(hash),
	}))

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	messenger := &stubMessenger{}
	dispatcher := notify.NewDispatcher(messenger, db.NotificationRepo(), testBaseURL)

	cfg := map[string]string{"SESSION_SECRET": testSecret}
	router := newRouter(db, blobs, dispatcher, withConfig(cfg), withStartupTime(time.Now()))

	return &testEnv{
		router:    router,
		db:        db,
		gormDB:    gormDB,
		messenger: messenger,
		blobs:     blobs,
	}
}

// login authenticates the seeded admin and returns the session cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": testUsername, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// do performs a JSON request against the router.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorded JSON response body.
func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

// createProject registers a project through the API and returns its
// decoded representation.
func (e *testEnv) createProject(t *testing.T, cookie *http.Cookie) map[string]interface{} {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/projects", map[string]string{
		"clientName":  "Budi",
		"clientPhone": "081234567890",
		"projectName": "Website Toko",
		"deadline":    "2026-12-31",
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.Code)

	var body struct {
		Project map[string]interface{} `json:"project"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.Project)
	return body.Project
}
