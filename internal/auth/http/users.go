package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cobaltlabs/passport/internal/auth/service"
	"github.com/cobaltlabs/passport/pkg/authsdk"
	"github.com/cobaltlabs/passport/pkg/httpx"
	"github.com/cobaltlabs/passport/pkg/slogx"
)

// RegisterHandler serves POST /users
type RegisterHandler struct {
	UserService *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Register User
//	@Description	Creates a new user account. The account is active immediately and can log in.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest	true	"email, name, password"
//	@Success		201		{object}	authsdk.UserResponse	"id, email, name, active, verified, created_at"
//	@Failure		400		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/users [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			authsdk.ErrEmailTaken.WriteError(w)
		case errors.Is(err, service.ErrInvalidEmail):
			authsdk.NewOAuth2Error(http.StatusBadRequest,
				authsdk.ErrorCodeInvalidRequest, "invalid email address").WriteError(w)
		case errors.Is(err, service.ErrWeakPassword):
			authsdk.NewOAuth2Error(http.StatusBadRequest,
				authsdk.ErrorCodeInvalidRequest, "password is too short").WriteError(w)
		default:
			log.Error("user registration failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
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

	httpx.WriteJSON(w, http.StatusCreated, response)
}
