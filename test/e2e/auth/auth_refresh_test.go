package auth_test

import (
	"net/http"
	"testing"

	"github.com/cobaltlabs/passport/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginAndRefresh tests the complete flow:
// 1. Register and login
// 2. Refresh with the issued refresh token
// 3. Verify a new access token is minted and the refresh token is echoed back
func TestLoginAndRefresh(t *testing.T) {
	baseURL, cleanup := setupPassportContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	tokens, err := client.PasswordGrant(t.Context(), testEmail, testPassword)
	require.NoError(t, err)
	assertTokenResponse(t, tokens)

	refreshed, err := client.RefreshGrant(t.Context(), tokens.RefreshToken)
	require.NoError(t, err)
	assertTokenResponse(t, refreshed)

	// No rotation: the same refresh token comes back and stays valid.
	require.Equal(t, tokens.RefreshToken, refreshed.RefreshToken,
		"Refresh token should be returned unchanged")

	// The refresh token is reusable.
	again, err := client.RefreshGrant(t.Context(), tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, tokens.RefreshToken, again.RefreshToken)

	// The new access token works against an authenticated endpoint.
	me, err := client.Userinfo(t.Context(), refreshed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testEmail, me.Email)
}

// TestRefreshRejectsInvalidTokens verifies the refresh endpoint returns 401
// for garbage input and for access tokens used in place of refresh tokens.
func TestRefreshRejectsInvalidTokens(t *testing.T) {
	baseURL, cleanup := setupPassportContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	tokens, err := client.PasswordGrant(t.Context(), testEmail, testPassword)
	require.NoError(t, err)

	_, err = client.RefreshGrant(t.Context(), "not-a-real-token")
	assertOAuth2Error(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)

	// Access tokens are a different class and must be rejected here.
	_, err = client.RefreshGrant(t.Context(), tokens.AccessToken)
	assertOAuth2Error(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
}
