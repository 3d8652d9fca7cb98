package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cobaltlabs/passport/internal/auth/service"
	"github.com/cobaltlabs/passport/pkg/authsdk"
	"github.com/cobaltlabs/passport/pkg/httpx"
	"github.com/cobaltlabs/passport/pkg/slogx"
)

// TokenHandler serves POST /auth/token
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework.
type TokenHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Password Login
//	@Description	Exchanges an email and password for an access and refresh token pair.
//	@Description	Wrong email and wrong password produce the same error so account existence is not leaked.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Account email (sent as username per the OAuth2 password form convention)"
//	@Param			password	formData	string					true	"Account password"
//	@Success		200			{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Header			200			{string}	Pragma					"no-cache"
//	@Router			/auth/token [post].
func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Ensure the right content-type
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}

	// 2. Parse the form body
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	// The credential is an email address, but it travels in the username
	// field as OAuth2 password forms do.
	username := strings.TrimSpace(r.Form.Get("username"))
	password := r.Form.Get("password")

	if username == "" || password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.PasswordLogin(ctx, username, password)
	if err != nil {
		switch {
		// Unknown account and wrong password collapse into one response.
		case errors.Is(err, service.ErrUserNotFound),
			errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidGrant.WriteError(w)
		case errors.Is(err, service.ErrAccountInactive):
			authsdk.ErrAccountInactive.WriteError(w)
		default:
			log.Error("password login failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	response := authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
