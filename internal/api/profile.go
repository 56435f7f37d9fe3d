package api

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ilogapp/ilog-cli/internal/models"
)

// Profile API methods

func (c *Client) GetProfile() (*models.UserProfile, error) {
	respBody, err := c.makeRequest("GET", "/user/profile", nil)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(respBody, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// ProfileRequest carries the editable profile fields. Photo is an optional
// replacement image; nil keeps the current one.
type ProfileRequest struct {
	Nickname  string
	Biography string
	Photo     *Upload
}

// UpdateProfile sends the profile as multipart: a JSON metadata part plus an
// optional photo part.
func (c *Client) UpdateProfile(req ProfileRequest) (*models.UserProfile, error) {
	meta := map[string]interface{}{
		"nickname":  req.Nickname,
		"biography": req.Biography,
	}

	var uploads []Upload
	if req.Photo != nil {
		uploads = append(uploads, *req.Photo)
	}

	respBody, err := c.makeMultipartRequest("PUT", "/user/profile", "request", meta, uploads)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(respBody, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// CheckNickname asks the backend whether a nickname is free.
func (c *Client) CheckNickname(nickname string) (bool, error) {
	params := url.Values{}
	params.Add("nickname", nickname)

	respBody, err := c.makeRequest("GET", "/user/profile/check-nickname?"+params.Encode(), nil)
	if err != nil {
		return false, err
	}

	var response struct {
		Available bool `json:"available"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return false, fmt.Errorf("failed to unmarshal nickname check: %w", err)
	}
	return response.Available, nil
}
