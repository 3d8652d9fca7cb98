// Package authsdk is a Go client for the Passport authentication service.
//
// It wraps the HTTP API with typed requests and responses, so callers never
// deal with raw form encoding or JSON bodies:
//
//	client := authsdk.NewSDKClient("http://localhost:8080")
//
//	tokens, err := client.PasswordGrant(ctx, "user@example.com", "password")
//	if err != nil {
//		var oauthErr *authsdk.OAuth2Error
//		if errors.As(err, &oauthErr) && oauthErr.Code == authsdk.ErrorCodeInvalidGrant {
//			// bad credentials
//		}
//		return err
//	}
//
//	// Later, mint a fresh access token. The refresh token is returned
//	// unchanged and stays valid.
//	tokens, err = client.RefreshGrant(ctx, tokens.RefreshToken)
//
// Error responses are surfaced as *OAuth2Error values carrying the HTTP
// status, the OAuth2 error code, and its description.
package authsdk
