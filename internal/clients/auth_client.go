package clients

import (
	"context"
	"net/http"

	"merchant-console/internal/models"
)

// LoginOwner authenticates a business owner account
func (c *BackendClient) LoginOwner(ctx context.Context, loginID, password string) (*models.OwnerLoginResponse, error) {
	var resp models.OwnerLoginResponse
	body := models.LoginRequest{LoginID: loginID, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/owners/login", nil, body, &resp,
		"owner login failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignUp registers a new account
func (c *BackendClient) SignUp(ctx context.Context, req models.SignUpRequest) (*models.SignUpResponse, error) {
	var resp models.SignUpResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/customers/sign-up", nil, req, &resp,
		"sign up failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}
