package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nutrilens/pkg/password"
	"nutrilens/pkg/tokens"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestRouter wires the router against in-memory stores so the auth
// surface can be exercised without Postgres.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg = Config{
		CORSOrigins: "*",
		Password:    password.Policy{MinLength: 8, Cost: bcrypt.MinCost},
	}
	codec = tokens.NewCodec([]byte("test-access-secret"), []byte("test-refresh-secret"), time.Hour, 7*24*time.Hour)
	svc = NewAuthService(newMemUserStore(), newMemTokenStore(), &memConsentStore{}, &memAuditStore{}, codec, cfg.Password)

	r := gin.New()
	setupRoutes(r)
	return r
}

func doJSON(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var signupBody = map[string]any{
	"name":            "Ana Pop",
	"email":           "ana@example.com",
	"password":        "Str0ng!Pass",
	"confirmPassword": "Str0ng!Pass",
	"acceptTerms":     true,
	"acceptPrivacy":   true,
	"acceptGDPR":      true,
}

func TestSignupEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["requestId"])
	data := body["data"].(map[string]any)
	require.NotEmpty(t, data["userId"])
	require.Equal(t, "ana@example.com", data["email"])
	require.NotEmpty(t, data["token"])
	require.NotEmpty(t, data["refreshToken"])

	// the returned refresh token immediately yields a fresh access token
	rec = doJSON(r, http.MethodPost, "/v1/auth/refresh", map[string]any{
		"refreshToken": data["refreshToken"],
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decodeBody(t, rec)["data"].(map[string]any)
	require.NotEmpty(t, refreshed["token"])
}

func TestSignupConflict(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(r, http.MethodPost, "/v1/auth/signup", signupBody, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, CodeEmailExists, body["error"])
	require.NotEmpty(t, body["requestId"])
}

func TestSignupValidationDetails(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/signup", map[string]any{
		"name": "Ana Pop",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, CodeValidation, body["error"])
	details := body["details"].(map[string]any)
	require.ElementsMatch(t, []any{"email", "password", "confirmPassword"}, details["missing"])
}

func TestLoginEndpointIndistinguishableFailures(t *testing.T) {
	r := newTestRouter(t)
	doJSON(r, http.MethodPost, "/v1/auth/signup", signupBody, "")

	wrongPass := doJSON(r, http.MethodPost, "/v1/auth/login", map[string]any{
		"email": "ana@example.com", "password": "nope-nope",
	}, "")
	noUser := doJSON(r, http.MethodPost, "/v1/auth/login", map[string]any{
		"email": "ghost@example.com", "password": "nope-nope",
	}, "")

	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, noUser.Code)
	b1, b2 := decodeBody(t, wrongPass), decodeBody(t, noUser)
	require.Equal(t, b1["error"], b2["error"])
	require.Equal(t, b1["message"], b2["message"])
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/signup", signupBody, "")
	data := decodeBody(t, rec)["data"].(map[string]any)
	access := data["token"].(string)
	refresh := data["refreshToken"].(string)

	// logout requires authentication
	rec = doJSON(r, http.MethodPost, "/v1/auth/logout", map[string]any{"refreshToken": refresh}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeUnauthorized, decodeBody(t, rec)["error"])

	rec = doJSON(r, http.MethodPost, "/v1/auth/logout", map[string]any{"refreshToken": refresh}, access)
	require.Equal(t, http.StatusOK, rec.Code)

	// the revoked token can never mint an access token again
	rec = doJSON(r, http.MethodPost, "/v1/auth/refresh", map[string]any{"refreshToken": refresh}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeInvalidToken, decodeBody(t, rec)["error"])

	// logout is idempotent: same revoked token, still 200
	rec = doJSON(r, http.MethodPost, "/v1/auth/logout", map[string]any{"refreshToken": refresh}, access)
	require.Equal(t, http.StatusOK, rec.Code)

	// and with no body at all
	rec = doJSON(r, http.MethodPost, "/v1/auth/logout", nil, access)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRouteRejectsBadTokens(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(r, http.MethodGet, "/v1/pantry", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeUnauthorized, decodeBody(t, rec)["error"])

	rec = doJSON(r, http.MethodGet, "/v1/pantry", nil, "garbage-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeInvalidToken, decodeBody(t, rec)["error"])

	// expired token fails even though the signature is ours
	expiredCodec := tokens.NewCodec([]byte("test-access-secret"), []byte("test-refresh-secret"), -time.Minute, time.Hour)
	expired, err := expiredCodec.IssueAccess("some-user", "a@b.co")
	require.NoError(t, err)
	rec = doJSON(r, http.MethodGet, "/v1/pantry", nil, expired)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, CodeInvalidToken, decodeBody(t, rec)["error"])
}

func TestRequestIDPropagation(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "req-abc-123", rec.Header().Get("X-Request-ID"))
	require.Equal(t, "req-abc-123", decodeBody(t, rec)["requestId"])

	// generated when absent
	rec2 := doJSON(r, http.MethodGet, "/health", nil, "")
	require.NotEmpty(t, rec2.Header().Get("X-Request-ID"))
}

func TestMissingRefreshTokenIs400(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/auth/refresh", map[string]any{}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, CodeValidation, decodeBody(t, rec)["error"])
}
