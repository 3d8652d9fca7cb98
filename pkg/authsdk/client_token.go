package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// PasswordGrant exchanges an email and password for a token pair. The email
// is posted in the username form field, following the OAuth2 password form
// convention.
func (c *SDKClient) PasswordGrant(
	ctx context.Context,
	email, password string,
) (*TokenResponse, error) {
	data := url.Values{
		"username": {email},
		"password": {password},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/token",
		strings.NewReader(data.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// RefreshGrant requests a new access token using a refresh token. The refresh
// token in the response is the one supplied, unchanged.
func (c *SDKClient) RefreshGrant(
	ctx context.Context,
	refreshToken string,
) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", nil,
		map[string]string{"Refresh-Token": refreshToken})
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}
