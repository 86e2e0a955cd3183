package users

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/meetmax/meetmax-api/testing"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) (http.Handler, *mockStore) {
	t.Helper()
	svc, store := newTestService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, svc)

	r := chi.NewRouter()
	r.Route("/api/user", func(r chi.Router) {
		handler.MountRoutes(r)
	})
	return r, store
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestListEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	seedUser(t, store, "ada@example.com", true)

	rec, env := doJSON(t, router, http.MethodGet, "/api/user/all-users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Users retrieved", env.Message)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "ada@example.com", views[0]["email"])
	_, hasPassword := views[0]["password"]
	assert.False(t, hasPassword)
}

func TestListEndpointEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/user/all-users", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No user(s) found", env.Message)
}

func TestUpdateEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	user := seedUser(t, store, "ada@example.com", true)

	body := `{
		"id": "` + user.ID.String() + `",
		"email": "augusta@example.com",
		"firstname": "Augusta",
		"lastname": "King",
		"dateOfBirth": "1990-12-10",
		"gender": "female"
	}`
	rec, env := doJSON(t, router, http.MethodPatch, "/api/user/update-user", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"User Lovelace Ada with email: ada@example.com updated to: User King Augusta with email: augusta@example.com",
		env.Message)
}

func TestDeleteEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	user := seedUser(t, store, "ada@example.com", true)

	rec, env := doJSON(t, router, http.MethodDelete, "/api/user/delete-user",
		`{"id":"`+user.ID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User Lovelace Ada with email: ada@example.com deleted", env.Message)
}
