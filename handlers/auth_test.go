package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, env *testEnv, username, email, password string) map[string]interface{} {
	t.Helper()
	rr := serve(t, env.auth.Register, request{
		method: http.MethodPost,
		target: "/auth/register",
		body:   map[string]string{"username": username, "email": email, "password": password},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp map[string]interface{}
	decode(t, rr, &resp)
	return resp
}

func TestRegisterReturnsUserID(t *testing.T) {
	env := newTestEnv(t)

	resp := register(t, env, "bob", "bob@x.com", "pw")

	assert.Equal(t, "User registered successfully", resp["message"])
	assert.NotZero(t, resp["userId"])

	user, err := env.store.GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", user.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "bob", "bob@x.com", "pw")

	rr := serve(t, env.auth.Register, request{
		method: http.MethodPost,
		target: "/auth/register",
		body:   map[string]string{"username": "bob", "email": "other@x.com", "password": "pw"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp map[string]string
	decode(t, rr, &resp)
	assert.Equal(t, "Username is already taken", resp["error"])

	exists, err := env.store.EmailExists(context.Background(), "other@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "bob", "bob@x.com", "pw")

	rr := serve(t, env.auth.Register, request{
		method: http.MethodPost,
		target: "/auth/register",
		body:   map[string]string{"username": "robert", "email": "bob@x.com", "password": "pw"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp map[string]string
	decode(t, rr, &resp)
	assert.Equal(t, "Email is already registered", resp["error"])
}

func TestRegisterRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	rr := serve(t, env.auth.Register, request{method: http.MethodPost, target: "/auth/register", body: "{not json"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(t, env.auth.Register, request{
		method: http.MethodPost,
		target: "/auth/register",
		body:   map[string]string{"username": "bob"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	reg := register(t, env, "bob", "bob@x.com", "pw")

	rr := serve(t, env.auth.Login, request{
		method: http.MethodPost,
		target: "/auth/login",
		body:   map[string]string{"username": "bob", "password": "pw"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	decode(t, rr, &resp)
	assert.Equal(t, "Login successful", resp["message"])
	assert.Equal(t, reg["userId"], resp["userId"])
	assert.Equal(t, "bob", resp["username"])
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "bob", "bob@x.com", "pw")

	wrongPassword := serve(t, env.auth.Login, request{
		method: http.MethodPost,
		target: "/auth/login",
		body:   map[string]string{"username": "bob", "password": "nope"},
	})
	unknownUser := serve(t, env.auth.Login, request{
		method: http.MethodPost,
		target: "/auth/login",
		body:   map[string]string{"username": "ghost", "password": "pw"},
	})

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.JSONEq(t, `{"error":"Invalid username or password"}`, unknownUser.Body.String())
}
