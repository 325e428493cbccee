package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJSONErrorHidesInternalMessageOn5xx(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/session", nil)

	err := errors.New("pq: connection refused")
	SendJSONError(c, http.StatusInternalServerError, err.Error(), err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, genericServerError, body["error"])
	assert.True(t, c.IsAborted())
}

func TestSendJSONErrorClientError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/session/actions", nil)

	SendJSONError(c, http.StatusBadRequest, "Invalid answer", nil, "age 12 not in 18..120")

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid answer", body["error"])
	assert.Equal(t, "age 12 not in 18..120", body["details"])
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")
	token, err := m.Issue("session-1")
	require.NoError(t, err)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	token, err := NewTokenManager("a").Issue("session-1")
	require.NoError(t, err)
	_, err = NewTokenManager("b").Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret")
	claims := jwt.RegisteredClaims{
		Subject:   "session-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestEphemeralSecret(t *testing.T) {
	m := NewTokenManager("")
	token, err := m.Issue("s")
	require.NoError(t, err)
	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "s", id)
}
