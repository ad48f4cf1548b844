package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehitv/vidshare-server/internal/auth"
)

func newUserHandler(t *testing.T, fs *fakeStore) *UserHandler {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-test-secret")
	require.NoError(t, err)
	return NewUserHandler(fs, tokens, testLogger())
}

func TestHandlerRegisterUser(t *testing.T) {
	fs := newFakeStore()
	uh := newUserHandler(t, fs)

	t.Run("creates the user and returns a token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPost, "/api/users/register", map[string]string{
			"username": "snehit",
			"email":    "snehit@example.com",
			"password": "hunter22",
		})

		uh.HandlerRegisterUser(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "User registered successfully", body["message"])
		assert.Equal(t, "snehit", body["username"])
		assert.NotEmpty(t, body["token"])
		assert.NotEmpty(t, body["userId"])
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPost, "/api/users/register", map[string]string{
			"username": "someone-else",
			"email":    "snehit@example.com",
			"password": "hunter22",
		})

		uh.HandlerRegisterUser(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "User already exists", decodeBody(t, rec)["message"])
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPost, "/api/users/register", map[string]string{
			"username": "nopassword",
			"email":    "nopassword@example.com",
		})

		uh.HandlerRegisterUser(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerLoginUser(t *testing.T) {
	fs := newFakeStore()
	uh := newUserHandler(t, fs)

	hash, err := auth.HashPassword("correct-password")
	require.NoError(t, err)
	user := seedUser(t, fs, "snehit", "snehit@example.com")
	user.PasswordHash = hash

	t.Run("returns a token on valid credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPost, "/api/users/login", map[string]string{
			"email":    "snehit@example.com",
			"password": "correct-password",
		})

		uh.HandlerLoginUser(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, user.ID.String(), body["userId"])
		assert.Equal(t, "snehit", body["username"])
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPass := httptest.NewRecorder()
		uh.HandlerLoginUser(wrongPass, jsonRequest(t, http.MethodPost, "/api/users/login", map[string]string{
			"email":    "snehit@example.com",
			"password": "wrong-password",
		}))

		unknownEmail := httptest.NewRecorder()
		uh.HandlerLoginUser(unknownEmail, jsonRequest(t, http.MethodPost, "/api/users/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "correct-password",
		}))

		require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, decodeBody(t, wrongPass)["message"], decodeBody(t, unknownEmail)["message"])
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := jsonRequest(t, http.MethodPost, "/api/users/login", map[string]string{
			"email": "snehit@example.com",
		})

		uh.HandlerLoginUser(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerGetUserProfile(t *testing.T) {
	fs := newFakeStore()
	uh := newUserHandler(t, fs)
	user := seedUser(t, fs, "snehit", "snehit@example.com")

	rec := httptest.NewRecorder()
	req := asUser(jsonRequest(t, http.MethodGet, "/api/users/profile", nil), user.ID)

	uh.HandlerGetUserProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeBody(t, rec)["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "snehit", data["username"])
	assert.Equal(t, "snehit@example.com", data["email"])
	assert.NotContains(t, rec.Body.String(), "password")
}
