package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"blog-service/database/dbtest"
	"blog-service/handlers"
	"blog-service/models"
	"blog-service/store"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/httpserver"
	"golang.org/x/crypto/bcrypt"
)

const testOrigin = "http://localhost:3000"

func TestMain(m *testing.M) {
	InitLogger()
	os.Exit(m.Run())
}

// newTestServer serves the wrapped route table through gorilla/mux
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dbConn := dbtest.New(t)
	st := store.New(dbConn)
	c, err := cache.New(cache.Config{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	h := Handlers{
		Health:   handlers.HealthHandler(dbConn, "blog-service"),
		Auth:     handlers.NewAuthHandler(st, bcrypt.MinCost),
		Posts:    handlers.NewPostHandler(st, c, time.Minute, bcrypt.MinCost),
		Comments: handlers.NewCommentHandler(st),
	}

	router := mux.NewRouter()
	for _, route := range buildRoutes(h, testOrigin) {
		router.HandleFunc(route.Path, asServed(route)).Methods(route.Method)
	}

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

// asServed adapts route the way httpserver.Server.Register does: the auth
// callback runs unless the route is authNone, then route details go into the context.
func asServed(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if route.AuthType != authNone {
			ok, auth := checkAuth(r)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx = context.WithValue(ctx, httpserver.RequestAuthKey, auth)
		}
		ctx = context.WithValue(ctx, httpserver.RouteNameKey, route.Name)
		ctx = context.WithValue(ctx, httpserver.RouteMethodKey, route.Method)
		ctx = context.WithValue(ctx, httpserver.RoutePathKey, route.Path)
		ctx = context.WithValue(ctx, httpserver.AuthTypeKey, route.AuthType)
		route.Handler(ctx, w, r)
	}
}

func call(t *testing.T, srv *httptest.Server, method, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRegisterTwice(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]string{"username": "bob", "email": "bob@x.com", "password": "pw"}

	resp := call(t, srv, http.MethodPost, "/auth/register", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ok map[string]interface{}
	readJSON(t, resp, &ok)
	assert.NotZero(t, ok["userId"])

	resp = call(t, srv, http.MethodPost, "/auth/register", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var failed map[string]string
	readJSON(t, resp, &failed)
	assert.Equal(t, "Username is already taken", failed["error"])
}

func TestCreatePostThenListByAuthor(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodPost, "/posts", map[string]string{"title": "T", "content": "C"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created models.PostDTO
	readJSON(t, resp, &created)
	require.NotNil(t, created.Author)
	assert.Equal(t, "admin", created.Author.Username)

	resp = call(t, srv, http.MethodGet, "/posts/author/"+strconv.FormatInt(created.Author.ID, 10), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byAuthor []models.PostResponse
	readJSON(t, resp, &byAuthor)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, created.ID, byAuthor[0].ID)

	resp = call(t, srv, http.MethodGet, "/posts/"+strconv.FormatInt(created.ID, 10), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutesDoNotShadowEachOther(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodPost, "/posts", map[string]interface{}{
		"title": "Tagged", "category": "Go", "tags": []string{"category"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, srv, http.MethodGet, "/posts/category/Go", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byCategory []models.PostResponse
	readJSON(t, resp, &byCategory)
	assert.Len(t, byCategory, 1)

	resp = call(t, srv, http.MethodGet, "/posts/tag/category", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byTag []models.PostResponse
	readJSON(t, resp, &byTag)
	assert.Len(t, byTag, 1)

	resp = call(t, srv, http.MethodGet, "/comments/post/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, srv, http.MethodDelete, "/comments/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSAllowsOnlyConfiguredOrigin(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/posts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, testOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), handlers.CallerHeader)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/posts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodOptions, srv.URL+"/posts", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequestIDAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
	var health map[string]string
	readJSON(t, resp, &health)
	assert.Equal(t, "healthy", health["status"])

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
}

func TestMetricsCountRequests(t *testing.T) {
	srv := newTestServer(t)

	call(t, srv, http.MethodGet, "/posts", nil)
	call(t, srv, http.MethodGet, "/posts/12345", nil)

	resp := call(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	text := buf.String()
	assert.Contains(t, text, "blog_http_requests_total")
	assert.True(t, strings.Contains(text, `route="GetPost"`) && strings.Contains(text, `status="404"`))
}

func TestPreflightRoutesAreUniquePerPath(t *testing.T) {
	routes := []Route{
		{Name: "a", Method: http.MethodGet, Path: "/posts"},
		{Name: "b", Method: http.MethodPost, Path: "/posts"},
		{Name: "c", Method: http.MethodGet, Path: "/posts/{id}"},
	}

	pre := preflightRoutes(routes, testOrigin)
	require.Len(t, pre, 2)
	assert.Equal(t, http.MethodOptions, pre[0].Method)
	assert.Equal(t, "/posts", pre[0].Path)
	assert.Equal(t, "/posts/{id}", pre[1].Path)
}

func TestCheckAuthCarriesCallerHint(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/posts", nil)
	ok, auth := checkAuth(r)
	assert.True(t, ok)
	assert.Equal(t, authCaller, auth.Type)
	assert.Empty(t, auth.Client)

	r.Header.Set(handlers.CallerHeader, "7")
	_, auth = checkAuth(r)
	assert.Equal(t, "7", auth.Client)
}

func TestAPIRoutesRunAuthCallback(t *testing.T) {
	h := Handlers{Auth: &handlers.AuthHandler{}, Posts: &handlers.PostHandler{}, Comments: &handlers.CommentHandler{}}
	for _, route := range Routes(h) {
		switch route.Name {
		case "HealthCheck", "Register", "Login":
			assert.Equal(t, authNone, route.AuthType, route.Name)
		default:
			assert.Equal(t, authCaller, route.AuthType, route.Name)
		}
	}
}

func TestCreatePostAsCaller(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodPost, "/auth/register", map[string]string{"username": "carol", "email": "carol@x.com", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reg map[string]interface{}
	readJSON(t, resp, &reg)
	carolID := strconv.FormatInt(int64(reg["userId"].(float64)), 10)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]string{"title": "Mine"}))
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/posts", &buf)
	require.NoError(t, err)
	req.Header.Set(handlers.CallerHeader, carolID)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created models.PostDTO
	readJSON(t, resp, &created)
	assert.Equal(t, "carol", created.Author.Username)
}
