package api

import (
	"encoding/json"
	"fmt"

	"github.com/ilogapp/ilog-cli/internal/models"
)

// ExchangeGoogleToken trades a Google-issued ID token for a backend session.
func (c *Client) ExchangeGoogleToken(idToken string) (*models.Session, error) {
	reqBody := map[string]string{
		"idToken": idToken,
	}

	respBody, err := c.makeRequest("POST", "/auth/google", reqBody)
	if err != nil {
		return nil, err
	}

	var response struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Photo string `json:"photo"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth response: %w", err)
	}
	if response.Token == "" {
		return nil, fmt.Errorf("auth response carried no token")
	}

	return &models.Session{
		Name:  response.Name,
		Email: response.Email,
		Photo: response.Photo,
		Token: response.Token,
	}, nil
}

// RegisterFCMToken registers a push token for this installation.
func (c *Client) RegisterFCMToken(token string) error {
	reqBody := map[string]string{
		"fcmToken": token,
	}
	_, err := c.makeRequest("POST", "/user/fcm-token", reqBody)
	return err
}
