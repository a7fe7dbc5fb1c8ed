package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/versefinder/versefinder/internal/ai"
	"github.com/versefinder/versefinder/internal/auth"
	"github.com/versefinder/versefinder/internal/config"
	"github.com/versefinder/versefinder/internal/handlers"
	"github.com/versefinder/versefinder/internal/routes"
	"github.com/versefinder/versefinder/internal/search"
	"github.com/versefinder/versefinder/internal/search/mocks"
	"github.com/versefinder/versefinder/internal/store/storetest"
)

type app struct {
	router   *gin.Engine
	verifier *auth.HMACVerifier
	resolver *mocks.MockResolver
	fetcher  *mocks.MockTextFetcher
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	st := storetest.New(t)
	a := &app{
		verifier: auth.NewHMACVerifier("test-secret"),
		resolver: mocks.NewMockResolver(ctrl),
		fetcher:  mocks.NewMockTextFetcher(ctrl),
	}

	h := &handlers.Handlers{
		Store:    st,
		Pipeline: search.NewPipeline(a.resolver, a.fetcher, st, st, zap.NewNop()),
		Credits:  config.CreditsConfig{Starting: 3, LowThreshold: 3},
		Log:      zap.NewNop(),
	}
	authCfg := config.AuthConfig{AdminUserIDs: []string{"admin-1"}}

	router, err := routes.SetupRouter(h, routes.Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		Verifier:       a.verifier,
		IsAdmin:        authCfg.IsAdmin,
		Log:            zap.NewNop(),
	})
	require.NoError(t, err)
	a.router = router
	return a
}

func (a *app) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := a.verifier.GenerateToken(auth.Session{UserID: userID, Name: "Reader", Email: userID + "@example.com"}, time.Hour)
	require.NoError(t, err)
	return token
}

func (a *app) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestPingAndNotFound(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodGet, "/v1/ping", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong!", body["message"])

	code, body = a.do(t, http.MethodGet, "/v1/search", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", body["text"])

	code, _ = a.do(t, http.MethodPut, "/v1/search", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSearchRequiresAuth(t *testing.T) {
	a := newApp(t)

	code, body := a.do(t, http.MethodPost, "/v1/search", "", `{"query":"lost sheep"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No authentication token provided", body["text"])

	code, body = a.do(t, http.MethodPost, "/v1/search", "forged", `{"query":"lost sheep"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication failed", body["error"])
}

func TestSearchFlow(t *testing.T) {
	a := newApp(t)
	tok := a.token(t, "user-1")

	// Sign-in provisions the starting allotment.
	code, body := a.do(t, http.MethodPost, "/v1/users/me", tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["credits"])
	assert.Equal(t, true, body["lowCredits"])

	// Blank queries never reach the pipeline.
	code, _ = a.do(t, http.MethodPost, "/v1/search", tok, `{"query":"   "}`)
	assert.Equal(t, http.StatusBadRequest, code)

	gomock.InOrder(
		a.resolver.EXPECT().Resolve(gomock.Any(), "lost sheep").Return(ai.NotFound(), nil),
		a.resolver.EXPECT().Resolve(gomock.Any(), "a shepherd finds a lost sheep").Return(ai.Found("Luke 15:4-6"), nil),
	)
	a.fetcher.EXPECT().FetchText(gomock.Any(), "Luke 15:4-6").Return("What man of you...", nil)

	code, body = a.do(t, http.MethodPost, "/v1/search", tok, `{"query":"lost sheep","storyId":false}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "not found", body["scripture"])
	assert.NotContains(t, body, "scriptureText")
	storyID, _ := body["id"].(string)
	require.NotEmpty(t, storyID)

	// Re-submitting the not-found story edits it in place.
	code, body = a.do(t, http.MethodPost, "/v1/search", tok,
		`{"query":"a shepherd finds a lost sheep","storyId":"`+storyID+`"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, storyID, body["id"])
	assert.Equal(t, "Luke 15:4-6", body["scripture"])
	assert.Equal(t, "What man of you...", body["scriptureText"])

	code, body = a.do(t, http.MethodGet, "/v1/credits", tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["credits"])

	code, body = a.do(t, http.MethodGet, "/v1/history", tok, "")
	require.Equal(t, http.StatusOK, code)
	history, ok := body["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	first := history[0].(map[string]any)
	assert.Equal(t, storyID, first["id"])
	assert.Equal(t, true, first["found"])

	code, body = a.do(t, http.MethodGet, "/v1/history/"+storyID, tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a shepherd finds a lost sheep", body["story"])

	// Another user cannot see the entry.
	code, _ = a.do(t, http.MethodGet, "/v1/history/"+storyID, a.token(t, "user-2"), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHistoryLimit(t *testing.T) {
	a := newApp(t)
	tok := a.token(t, "user-1")

	code, _ := a.do(t, http.MethodGet, "/v1/history?limit=0", tok, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := a.do(t, http.MethodGet, "/v1/history?limit=500", tok, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["history"])
}

func TestCreditsNotProvisioned(t *testing.T) {
	a := newApp(t)

	code, _ := a.do(t, http.MethodGet, "/v1/credits", a.token(t, "user-1"), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGrantCredits(t *testing.T) {
	a := newApp(t)
	user := a.token(t, "user-1")
	admin := a.token(t, "admin-1")

	code, _ := a.do(t, http.MethodPost, "/v1/users/me", user, "")
	require.Equal(t, http.StatusOK, code)

	code, _ = a.do(t, http.MethodPost, "/v1/admin/users/user-1/credits", user, `{"amount":5}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(t, http.MethodPost, "/v1/admin/users/user-1/credits", admin, `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodPost, "/v1/admin/users/nobody/credits", admin, `{"amount":5}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, body := a.do(t, http.MethodPost, "/v1/admin/users/user-1/credits", admin, `{"amount":5}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(8), body["credits"])
}
