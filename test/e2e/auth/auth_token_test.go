package auth_test

import (
	"net/http"
	"testing"

	"github.com/cobaltlabs/passport/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterAndPasswordLogin tests the complete flow:
// 1. Register a new account
// 2. Login with email and password
// 3. Fetch userinfo with the access token
// 4. Verify the account email
func TestRegisterAndPasswordLogin(t *testing.T) {
	baseURL, cleanup := setupPassportContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	user := registerTestUser(t, client)
	t.Logf("Registered user %s", user.ID)

	tokens, err := client.PasswordGrant(t.Context(), testEmail, testPassword)
	require.NoError(t, err)
	assertTokenResponse(t, tokens)
	require.Equal(t, 15*60, tokens.ExpiresIn, "expires_in should match the access token TTL")

	me, err := client.Userinfo(t.Context(), tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, testEmail, me.Email)
	require.False(t, me.Verified, "registration should not pre-verify the email")

	require.NoError(t, client.Verify(t.Context(), tokens.AccessToken))

	me, err = client.Userinfo(t.Context(), tokens.AccessToken)
	require.NoError(t, err)
	require.True(t, me.Verified)
}

// TestPasswordLoginDoesNotLeakAccountExistence verifies that an unknown email
// and a wrong password produce identical error responses.
func TestPasswordLoginDoesNotLeakAccountExistence(t *testing.T) {
	baseURL, cleanup := setupPassportContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	_, unknownErr := client.PasswordGrant(t.Context(), "nobody@example.com", testPassword)
	_, wrongPassErr := client.PasswordGrant(t.Context(), testEmail, "WrongPassword!")

	assertOAuth2Error(t, unknownErr, http.StatusBadRequest, authsdk.ErrorCodeInvalidGrant)
	assertOAuth2Error(t, wrongPassErr, http.StatusBadRequest, authsdk.ErrorCodeInvalidGrant)
	require.Equal(t, unknownErr.Error(), wrongPassErr.Error(),
		"Unknown account and wrong password must be indistinguishable")
}

// TestRegisterDuplicateEmail verifies duplicate registration is rejected.
func TestRegisterDuplicateEmail(t *testing.T) {
	baseURL, cleanup := setupPassportContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerTestUser(t, client)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    testEmail,
		Name:     "Someone Else",
		Password: testPassword,
	})
	assertOAuth2Error(t, err, http.StatusConflict, authsdk.ErrorCodeEmailTaken)
}

// TestUserinfoRejectsBogusToken verifies bearer auth on the userinfo endpoint.
func TestUserinfoRejectsBogusToken(t *testing.T) {
	baseURL, cleanup := setupPassportContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	_, err := client.Userinfo(t.Context(), "not-a-real-token")
	require.Error(t, err)

	var oauthErr *authsdk.OAuth2Error
	require.ErrorAs(t, err, &oauthErr)
	require.Equal(t, http.StatusUnauthorized, oauthErr.StatusCode)
}
