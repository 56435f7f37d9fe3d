package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ilogapp/ilog-cli/internal/models"
)

// ILogRequest carries the metadata part of a journal create/update.
type ILogRequest struct {
	LogDate    time.Time
	Content    string
	Visibility models.Visibility
	FriendTags []string
	Tags       string
	// KeptImages lists the existing image URLs to retain on update. An image
	// is removed by omitting its URL from this list.
	KeptImages []string
}

func (r ILogRequest) payload(includeKept bool) map[string]interface{} {
	body := map[string]interface{}{
		"logDate":    r.LogDate.Format(models.DateLayout),
		"content":    r.Content,
		"visibility": int(r.Visibility),
		"friendTags": r.FriendTags,
		"tags":       r.Tags,
	}
	if includeKept {
		kept := r.KeptImages
		if kept == nil {
			kept = []string{}
		}
		body["images"] = kept
	}
	return body
}

// ILog API methods

func (c *Client) ListILogs() ([]models.ILog, error) {
	respBody, err := c.makeRequest("GET", "/i-log", nil)
	if err != nil {
		return nil, err
	}

	var logs []models.ILog
	if err := json.Unmarshal(respBody, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entries: %w", err)
	}
	return logs, nil
}

func (c *Client) CreateILog(req ILogRequest, images []Upload) (*models.ILog, error) {
	respBody, err := c.makeMultipartRequest("POST", "/i-log", "request", req.payload(false), images)
	if err != nil {
		return nil, err
	}

	var log models.ILog
	if err := json.Unmarshal(respBody, &log); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
	}
	return &log, nil
}

func (c *Client) UpdateILog(id int64, req ILogRequest, newImages []Upload) (*models.ILog, error) {
	endpoint := fmt.Sprintf("/i-log/%d", id)
	respBody, err := c.makeMultipartRequest("PUT", endpoint, "request", req.payload(true), newImages)
	if err != nil {
		return nil, err
	}

	var log models.ILog
	if err := json.Unmarshal(respBody, &log); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
	}
	return &log, nil
}

func (c *Client) DeleteILog(id int64) error {
	_, err := c.makeRequest("DELETE", fmt.Sprintf("/i-log/%d", id), nil)
	return err
}

// GetILogByDate looks up the entry for a calendar date. No entry is not an
// error: it returns (nil, nil).
func (c *Client) GetILogByDate(date time.Time) (*models.ILog, error) {
	return c.lookupILog("/i-log/date/" + date.Format(models.DateLayout))
}

// GetPreviousILog returns the nearest entry before the given date, or nil.
func (c *Client) GetPreviousILog(date time.Time) (*models.ILog, error) {
	return c.lookupILog("/i-log/previous/" + date.Format(models.DateLayout))
}

// GetNextILog returns the nearest entry after the given date, or nil.
func (c *Client) GetNextILog(date time.Time) (*models.ILog, error) {
	return c.lookupILog("/i-log/next/" + date.Format(models.DateLayout))
}

func (c *Client) lookupILog(endpoint string) (*models.ILog, error) {
	respBody, err := c.makeRequest("GET", endpoint, nil)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var log models.ILog
	if err := json.Unmarshal(respBody, &log); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
	}
	return &log, nil
}
