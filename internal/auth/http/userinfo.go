package http

import (
	"net/http"

	"github.com/cobaltlabs/passport/internal/auth/service"
	"github.com/cobaltlabs/passport/pkg/authsdk"
	"github.com/cobaltlabs/passport/pkg/httpx"
	"github.com/cobaltlabs/passport/pkg/slogx"
)

type UserInfoHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Get user information
//	@Description	Returns the account behind the presented access token.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"id, email, name, active, verified, created_at"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/users/me [get].
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Get subject (user ID) from request context.
	userID := httpx.UserIDFromCtx(ctx)
	if userID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	response := authsdk.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Active:    user.Active,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
