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

// RefreshHandler serves POST /auth/refresh
// The refresh token travels in the Refresh-Token header rather than the body,
// so the endpoint takes no payload at all.
type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Refresh Access Token
//	@Description	Issues a new access token from a valid refresh token. The refresh token is returned unchanged and stays valid.
//	@Tags			Auth
//	@Produce		json
//	@Param			Refresh-Token	header		string					true	"Refresh token"
//	@Success		200				{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		401				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	authsdk.ErrorResponse	"error, error_description"
//	@Header			200				{string}	Cache-Control			"no-store"
//	@Header			200				{string}	Pragma					"no-cache"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refresh := strings.TrimSpace(r.Header.Get("Refresh-Token"))
	if refresh == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(ctx, refresh)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			authsdk.ErrInvalidToken.WriteError(w)
		default:
			log.Error("refresh failed", "err", err)
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
