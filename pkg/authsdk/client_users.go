package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Register creates a new user account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/users",
		bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}

	return &user, nil
}

// Verify marks the email of the account behind an access token as verified.
func (c *SDKClient) Verify(ctx context.Context, accessToken string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/users/me/verify", nil,
		map[string]string{"Authorization": "Bearer " + accessToken})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}

	return nil
}

// Userinfo fetches the account behind an access token.
func (c *SDKClient) Userinfo(ctx context.Context, accessToken string) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users/me", nil,
		map[string]string{"Authorization": "Bearer " + accessToken})
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}
