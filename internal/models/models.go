package models

import (
	"fmt"
	"strings"
	"time"
)

// NoTagID is the reserved tag id meaning "no tag". It is never persisted,
// edited, or deleted through the tag commands; on the wire it is sent as null.
const NoTagID int64 = 0

// MaxILogContentLen is the journal content cap. Longer content is truncated
// client-side before it ever reaches editor state or the wire.
const MaxILogContentLen = 2000

// Wire time layouts used by the backend.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// APITime is a time.Time that tolerates the backend's mixed formats:
// date-time without zone, RFC3339, or bare date.
type APITime struct {
	time.Time
}

func (t *APITime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{DateTimeLayout, time.RFC3339, DateLayout} {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized time value %q", s)
}

func (t APITime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(DateTimeLayout) + `"`), nil
}

// APIDate is a date-only wire value (yyyy-MM-dd).
type APIDate struct {
	time.Time
}

func (d *APIDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		// Some endpoints echo the date as a full timestamp.
		parsed, err = time.ParseInLocation(DateTimeLayout, s, time.Local)
	}
	if err != nil {
		return fmt.Errorf("unrecognized date value %q", s)
	}
	d.Time = parsed
	return nil
}

func (d APIDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// Schedule represents a calendar event.
type Schedule struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	CalendarID  int64   `json:"calendarId"`
	TagID       int64   `json:"tagId"` // 0 means "no tag"
	Title       string  `json:"title"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	StartTime   APITime `json:"startTime"`
	EndTime     APITime `json:"endTime"`
	IsAllDay    bool    `json:"isAllDay"`
	RRule       string  `json:"rrule"` // recurrence rule, carried but not interpreted
	CreatedAt   APITime `json:"createdAt"`
	UpdatedAt   APITime `json:"updatedAt"`
}

// Tag is a label/color pair attached to schedules.
type Tag struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	Label      string  `json:"label"`
	Color      string  `json:"color"` // hex string, e.g. "#FF8A65"
	Visibility string  `json:"visibility,omitempty"`
	CreatedAt  APITime `json:"createdAt"`
	UpdatedAt  APITime `json:"updatedAt"`
}

// Visibility is the journal entry audience, transmitted as its ordinal.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityFriendsOnly
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "PUBLIC"
	case VisibilityFriendsOnly:
		return "FRIENDS_ONLY"
	case VisibilityPrivate:
		return "PRIVATE"
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// ParseVisibility accepts the wire names, case-insensitively.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PUBLIC":
		return VisibilityPublic, nil
	case "FRIENDS_ONLY", "FRIENDS":
		return VisibilityFriendsOnly, nil
	case "PRIVATE":
		return VisibilityPrivate, nil
	}
	return VisibilityPrivate, fmt.Errorf("unknown visibility %q", s)
}

// ILog is a journal entry. One entry is conventionally expected per date.
type ILog struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"userId"`
	LogDate      APIDate    `json:"logDate"`
	Content      string     `json:"content"`
	Images       []string   `json:"images"`
	Visibility   Visibility `json:"visibility"`
	FriendTags   string     `json:"friendTags"` // JSON-encoded array, loosely typed upstream
	Tags         string     `json:"tags"`       // free-text hashtag string
	LikeCount    int        `json:"likeCount"`
	CommentCount int        `json:"commentCount"`
	CreatedAt    APITime    `json:"createdAt"`
}

// UserProfile is the account profile as the backend reports it.
type UserProfile struct {
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	PhotoURL  string `json:"photoUrl"`
	Biography string `json:"biography,omitempty"`
}

// Session is the locally persisted authenticated-user record.
type Session struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Token string `json:"token"`
}
