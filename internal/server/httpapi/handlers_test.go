package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dberezin/securenotes/internal/logging"
	"github.com/dberezin/securenotes/internal/server/config"
	"github.com/dberezin/securenotes/internal/server/repositories/repomanager"
	"github.com/dberezin/securenotes/internal/server/services"
	"github.com/dberezin/securenotes/internal/server/totp"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type testHarness struct {
	server *Server
	repos  repomanager.RepositoryManager
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	cfg := &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		TOTPIssuer:                  "SecureNotes",
	}
	rm := repomanager.NewInMemoryRepositoryManager()
	as := services.NewAuthService(rm.Users(), totp.NewEngine(cfg.TOTPIssuer), cfg)
	ns := services.NewNoteService(rm.Notes())
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	return &testHarness{
		server: NewServer(":0", logger, as, ns, cfg.SecretKey),
		repos:  rm,
	}
}

func (h *testHarness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.server.Engine().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// signupAndLogin runs the full enrollment + two-step login flow and returns
// a bearer token for the given account.
func (h *testHarness) signupAndLogin(t *testing.T, username, password string) string {
	t.Helper()
	ctx := context.Background()

	w := h.do(t, http.MethodPost, "/signup", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user, err := h.repos.Users().GetByUserName(ctx, username)
	require.NoError(t, err)
	code, err := totp.GenerateCode(user.TOTPSecret, time.Now())
	require.NoError(t, err)

	w = h.do(t, http.MethodPost, "/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPost, "/verify-mfa-login", "", gin.H{"username": username, "token": code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[map[string]any](t, w)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "API is running")
}

func TestSignup(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[map[string]string](t, w)
	assert.Contains(t, resp["qrCode"], "data:image/png;base64,")

	// second signup for the same name fails, exactly one account exists
	w = h.do(t, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "p2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp = decode[map[string]string](t, w)
	assert.Equal(t, "User already exists", resp["message"])
}

func TestSignup_MissingCredentials(t *testing.T) {
	h := newHarness(t)

	for _, body := range []gin.H{
		{"username": "", "password": "p"},
		{"username": "alice", "password": ""},
	} {
		w := h.do(t, http.MethodPost, "/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestVerifySetup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	w := h.do(t, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	// wrong code: 200 with verified=false
	w = h.do(t, http.MethodPost, "/verify-mfa-setup", "", gin.H{"username": "alice", "token": "000000"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[map[string]bool](t, w)["verified"])

	// right code: verified=true
	user, err := h.repos.Users().GetByUserName(ctx, "alice")
	require.NoError(t, err)
	code, err := totp.GenerateCode(user.TOTPSecret, time.Now())
	require.NoError(t, err)

	w = h.do(t, http.MethodPost, "/verify-mfa-setup", "", gin.H{"username": "alice", "token": code})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[map[string]bool](t, w)["verified"])

	// unknown user: 400
	w = h.do(t, http.MethodPost, "/verify-mfa-setup", "", gin.H{"username": "ghost", "token": "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[map[string]bool](t, w)["success"])

	// wrong password and unknown user produce the same response
	for _, body := range []gin.H{
		{"username": "alice", "password": "wrong"},
		{"username": "ghost", "password": "p1"},
	} {
		w = h.do(t, http.MethodPost, "/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, decode[map[string]bool](t, w)["success"])
	}
}

func TestVerifyLogin_WrongCode(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/signup", "", gin.H{"username": "alice", "password": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPost, "/verify-mfa-login", "", gin.H{"username": "alice", "token": "000000"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	resp := decode[map[string]any](t, w)
	assert.Equal(t, false, resp["verified"])
	assert.NotContains(t, resp, "token")

	// unknown user is 400, not 401
	w = h.do(t, http.MethodPost, "/verify-mfa-login", "", gin.H{"username": "ghost", "token": "123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotesCRUD(t *testing.T) {
	h := newHarness(t)
	token := h.signupAndLogin(t, "alice", "p1")

	// create
	w := h.do(t, http.MethodPost, "/notes", token, gin.H{"title": "shopping", "content": "milk", "tags": []string{"home"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	noteID, _ := created["id"].(string)
	require.NotEmpty(t, noteID)
	assert.Equal(t, "shopping", created["title"])

	// list
	w = h.do(t, http.MethodGet, "/notes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)

	// update
	w = h.do(t, http.MethodPut, "/notes/"+noteID, token, gin.H{"content": "milk, eggs"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[map[string]any](t, w)
	assert.Equal(t, "shopping", updated["title"])
	assert.Equal(t, "milk, eggs", updated["content"])

	// delete
	w = h.do(t, http.MethodDelete, "/notes/"+noteID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(t, http.MethodDelete, "/notes/"+noteID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotes_CreateValidation(t *testing.T) {
	h := newHarness(t)
	token := h.signupAndLogin(t, "alice", "p1")

	w := h.do(t, http.MethodPost, "/notes", token, gin.H{"title": "", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Two accounts each own a note; cross-owner access must behave as not-found
// and must not leak the other account's rows.
func TestNotes_NoCrossOwnerLeakage(t *testing.T) {
	h := newHarness(t)

	aliceToken := h.signupAndLogin(t, "alice", "p1")
	bobToken := h.signupAndLogin(t, "bob", "p2")

	w := h.do(t, http.MethodPost, "/notes", aliceToken, gin.H{"title": "alice-note", "content": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	aliceNoteID, _ := decode[map[string]any](t, w)["id"].(string)
	require.NotEmpty(t, aliceNoteID)

	w = h.do(t, http.MethodPost, "/notes", bobToken, gin.H{"title": "bob-note", "content": "other"})
	require.Equal(t, http.StatusOK, w.Code)

	// bob cannot update or delete alice's note
	w = h.do(t, http.MethodPut, "/notes/"+aliceNoteID, bobToken, gin.H{"title": "hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodDelete, "/notes/"+aliceNoteID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// alice's note is unchanged and invisible to bob
	w = h.do(t, http.MethodGet, "/notes", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bobList := decode[[]map[string]any](t, w)
	require.Len(t, bobList, 1)
	assert.Equal(t, "bob-note", bobList[0]["title"])

	w = h.do(t, http.MethodGet, "/notes", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	aliceList := decode[[]map[string]any](t, w)
	require.Len(t, aliceList, 1)
	assert.Equal(t, "alice-note", aliceList[0]["title"])
}
