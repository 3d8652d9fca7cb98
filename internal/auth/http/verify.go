package http

import (
	"errors"
	"net/http"

	"github.com/cobaltlabs/passport/internal/auth/service"
	"github.com/cobaltlabs/passport/internal/auth/store"
	"github.com/cobaltlabs/passport/pkg/authsdk"
	"github.com/cobaltlabs/passport/pkg/httpx"
	"github.com/cobaltlabs/passport/pkg/slogx"
)

// VerifyHandler serves POST /users/me/verify
type VerifyHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Verify Account Email
//	@Description	Marks the authenticated account's email as verified.
//	@Tags			Users
//	@Security		BearerAuth
//	@Success		204	"email verified"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		409	{object}	authsdk.ErrorResponse	"Account already verified"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/users/me/verify [post].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.UserService.Verify(ctx, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			authsdk.NewOAuth2Error(http.StatusConflict,
				authsdk.ErrorCodeInvalidRequest, "account is already verified").WriteError(w)
		case errors.Is(err, store.ErrNotFound):
			// The token outlived the account.
			authsdk.ErrInvalidToken.WriteError(w)
		default:
			log.Error("account verification failed", "user_id", userID, "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
