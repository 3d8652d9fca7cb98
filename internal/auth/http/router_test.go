package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cobaltlabs/passport/internal/auth/domain"
	"github.com/cobaltlabs/passport/internal/auth/service"
	"github.com/cobaltlabs/passport/internal/auth/store/drivers/sqlite"
	"github.com/cobaltlabs/passport/pkg/authsdk"
	"github.com/cobaltlabs/passport/pkg/cryptox"
	"github.com/cobaltlabs/passport/pkg/idx"
	"github.com/cobaltlabs/passport/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*Router, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(jwtx.Config{
		Secret: []byte("router-test-secret-0123456789abcd"),
		Issuer: "passport-auth",
	})
	require.NoError(t, err)

	r := NewRouter(codec, "test", st, slog.Default())
	r.TokenService = &service.TokenService{
		Codec:      codec,
		Store:      st,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	r.UserService = &service.UserService{Store: st, BcryptCost: cryptox.MinCost}
	r.ApplyRoutes()

	return r, st
}

func seedRouterUser(t *testing.T, st *sqlite.Store, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPasswordCost(password, cryptox.MinCost)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Router Test",
		PasswordHash: hash,
		Active:       true,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func postForm(t *testing.T, r *Router, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeTokenResponse(t *testing.T, rec *httptest.ResponseRecorder) authsdk.TokenResponse {
	t.Helper()

	var resp authsdk.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestTokenEndpointSuccess(t *testing.T) {
	r, st := newTestRouter(t)
	seedRouterUser(t, st, "a@b.com", "hunter2hunter2")

	rec := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"hunter2hunter2"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	resp := decodeTokenResponse(t, rec)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, int((15 * time.Minute).Seconds()), resp.ExpiresIn)
}

func TestTokenEndpointUniformCredentialError(t *testing.T) {
	r, st := newTestRouter(t)
	seedRouterUser(t, st, "a@b.com", "hunter2hunter2")

	// Unknown account and wrong password must be indistinguishable.
	unknown := postForm(t, r, "/auth/token", url.Values{
		"username": {"nobody@b.com"},
		"password": {"hunter2hunter2"},
	})
	wrongPass := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"wrong"},
	})

	require.Equal(t, http.StatusBadRequest, unknown.Code)
	require.Equal(t, http.StatusBadRequest, wrongPass.Code)
	require.JSONEq(t, unknown.Body.String(), wrongPass.Body.String())

	var errResp authsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(unknown.Body.Bytes(), &errResp))
	require.Equal(t, authsdk.ErrorCodeInvalidGrant, errResp.Error)
}

func TestTokenEndpointInactiveAccount(t *testing.T) {
	r, st := newTestRouter(t)
	u := seedRouterUser(t, st, "a@b.com", "hunter2hunter2")
	require.NoError(t, st.Users().SetUserActive(context.Background(), u.ID, false))

	rec := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"hunter2hunter2"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp authsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, authsdk.ErrorCodeAccountInactive, errResp.Error)
}

func TestTokenEndpointMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := postForm(t, r, "/auth/token", url.Values{"username": {"a@b.com"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenEndpointWrongContentType(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"email":"a@b.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	seedRouterUser(t, st, "a@b.com", "hunter2hunter2")

	login := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"hunter2hunter2"},
	})
	require.Equal(t, http.StatusOK, login.Code)
	tokens := decodeTokenResponse(t, login)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("Refresh-Token", tokens.RefreshToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decodeTokenResponse(t, rec)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Equal(t, tokens.RefreshToken, refreshed.RefreshToken)
}

func TestRefreshEndpointRejectsBadTokens(t *testing.T) {
	r, st := newTestRouter(t)
	seedRouterUser(t, st, "a@b.com", "hunter2hunter2")

	login := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"hunter2hunter2"},
	})
	tokens := decodeTokenResponse(t, login)

	cases := map[string]string{
		"missing header": "",
		"garbage":        "not-a-token",
		"access token":   tokens.AccessToken,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
			if token != "" {
				req.Header.Set("Refresh-Token", token)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRegisterAndUserinfo(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"email":"new@example.com","name":"New User","password":"s3cret-enough"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created authsdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "new@example.com", created.Email)

	login := postForm(t, r, "/auth/token", url.Values{
		"username": {"new@example.com"},
		"password": {"s3cret-enough"},
	})
	require.Equal(t, http.StatusOK, login.Code)
	tokens := decodeTokenResponse(t, login)

	me := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	me.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	meRec := httptest.NewRecorder()
	r.ServeHTTP(meRec, me)
	require.Equal(t, http.StatusOK, meRec.Code)

	var user authsdk.UserResponse
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &user))
	require.Equal(t, created.ID, user.ID)
}

func TestUserinfoRequiresAccessToken(t *testing.T) {
	r, st := newTestRouter(t)
	seedRouterUser(t, st, "a@b.com", "hunter2hunter2")

	login := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"hunter2hunter2"},
	})
	tokens := decodeTokenResponse(t, login)

	// No token at all.
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Refresh token is the wrong class for bearer auth.
	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	r, st := newTestRouter(t)
	seedRouterUser(t, st, "a@b.com", "hunter2hunter2")

	login := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"hunter2hunter2"},
	})
	require.Equal(t, http.StatusOK, login.Code)
	tokens := decodeTokenResponse(t, login)

	req := httptest.NewRequest(http.MethodPost, "/users/me/verify", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	me := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	me.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	meRec := httptest.NewRecorder()
	r.ServeHTTP(meRec, me)
	require.Equal(t, http.StatusOK, meRec.Code)

	var user authsdk.UserResponse
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &user))
	require.True(t, user.Verified)

	// Re-verifying is a conflict.
	req = httptest.NewRequest(http.MethodPost, "/users/me/verify", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestVerifyEndpointRequiresAccessToken(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users/me/verify", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenEndpointDirectoryFailure(t *testing.T) {
	r, st := newTestRouter(t)
	seedRouterUser(t, st, "a@b.com", "hunter2hunter2")
	require.NoError(t, st.Close())

	// A broken user directory must not masquerade as bad credentials.
	rec := postForm(t, r, "/auth/token", url.Values{
		"username": {"a@b.com"},
		"password": {"hunter2hunter2"},
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var errResp authsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, authsdk.ErrorCodeServerError, errResp.Error)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"email":"dup@example.com","name":"First","password":"s3cret-enough"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/livez", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)

		var health authsdk.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
		require.Equal(t, "ok", health.Status)
	}
}
