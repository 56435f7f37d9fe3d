package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ilogapp/ilog-cli/internal/models"
)

// ScheduleRequest carries the client-side fields of a schedule create/update.
type ScheduleRequest struct {
	TagID       int64
	Title       string
	Location    string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	IsAllDay    bool
	RRule       string
	CalendarID  int64
}

// payload builds the wire representation. All-day schedules serialize their
// times as bare dates; the tagId=0 sentinel becomes null, which is the
// server's convention for "no tag".
func (r ScheduleRequest) payload() map[string]interface{} {
	body := map[string]interface{}{
		"title":       r.Title,
		"location":    r.Location,
		"description": r.Description,
		"startTime":   formatScheduleTime(r.StartTime, r.IsAllDay),
		"endTime":     formatScheduleTime(r.EndTime, r.IsAllDay),
		"isAllDay":    r.IsAllDay,
		"rrule":       r.RRule,
		"calendarId":  r.CalendarID,
	}
	if r.TagID == models.NoTagID {
		body["tagId"] = nil
	} else {
		body["tagId"] = r.TagID
	}
	return body
}

func formatScheduleTime(t time.Time, isAllDay bool) string {
	if isAllDay {
		return t.Format(models.DateLayout)
	}
	return t.Format(models.DateTimeLayout)
}

// Schedule API methods

func (c *Client) ListSchedules() ([]models.Schedule, error) {
	respBody, err := c.makeRequest("GET", "/schedules", nil)
	if err != nil {
		return nil, err
	}

	var schedules []models.Schedule
	if err := json.Unmarshal(respBody, &schedules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedules: %w", err)
	}
	return schedules, nil
}

func (c *Client) CreateSchedule(req ScheduleRequest) (*models.Schedule, error) {
	respBody, err := c.makeRequest("POST", "/schedules", req.payload())
	if err != nil {
		return nil, err
	}

	var schedule models.Schedule
	if err := json.Unmarshal(respBody, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	return &schedule, nil
}

func (c *Client) UpdateSchedule(id int64, req ScheduleRequest) (*models.Schedule, error) {
	respBody, err := c.makeRequest("PUT", fmt.Sprintf("/schedules/%d", id), req.payload())
	if err != nil {
		return nil, err
	}

	var schedule models.Schedule
	if err := json.Unmarshal(respBody, &schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	return &schedule, nil
}

func (c *Client) DeleteSchedule(id int64) error {
	_, err := c.makeRequest("DELETE", fmt.Sprintf("/schedules/%d", id), nil)
	return err
}

// Tag API methods

func (c *Client) ListTags() ([]models.Tag, error) {
	respBody, err := c.makeRequest("GET", "/tags", nil)
	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err := json.Unmarshal(respBody, &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}
	return tags, nil
}

func (c *Client) CreateTag(label, color string) (*models.Tag, error) {
	reqBody := map[string]string{
		"label": label,
		"color": color,
	}

	respBody, err := c.makeRequest("POST", "/tags", reqBody)
	if err != nil {
		return nil, err
	}

	var tag models.Tag
	if err := json.Unmarshal(respBody, &tag); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag: %w", err)
	}
	return &tag, nil
}

func (c *Client) UpdateTag(id int64, label, color string) (*models.Tag, error) {
	reqBody := map[string]string{
		"label": label,
		"color": color,
	}

	respBody, err := c.makeRequest("PUT", fmt.Sprintf("/tags/%d", id), reqBody)
	if err != nil {
		return nil, err
	}

	var tag models.Tag
	if err := json.Unmarshal(respBody, &tag); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag: %w", err)
	}
	return &tag, nil
}

// DeleteTag removes a tag. The server cascades the deletion, reassigning
// affected schedules to "no tag".
func (c *Client) DeleteTag(id int64) error {
	_, err := c.makeRequest("DELETE", fmt.Sprintf("/tags/%d", id), nil)
	return err
}
