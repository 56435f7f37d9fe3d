package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ilogapp/ilog-cli/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, 0)
	client.TokenFunc = func() string { return "test-token" }
	return client, server
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	if _, err := client.ListSchedules(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-token")
	}
}

func TestClient_401InvalidatesSession(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	invalidated := false
	client.OnSessionInvalid = func() { invalidated = true }

	_, err := client.ListSchedules()
	if !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("error = %v, want ErrSessionInvalid", err)
	}
	if !invalidated {
		t.Error("OnSessionInvalid was not called")
	}
}

func TestClient_JWTExpiredBodyInvalidatesSession(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"JWT expired at 2024-05-21T09:00:00Z"}`))
	})

	invalidated := false
	client.OnSessionInvalid = func() { invalidated = true }

	_, err := client.ListSchedules()
	if !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("error = %v, want ErrSessionInvalid", err)
	}
	if !invalidated {
		t.Error("OnSessionInvalid was not called")
	}
}

func TestClient_TimeoutInvalidatesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, 50*time.Millisecond)
	invalidated := false
	client.OnSessionInvalid = func() { invalidated = true }

	_, err := client.ListSchedules()
	if !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("error = %v, want ErrSessionInvalid", err)
	}
	if !invalidated {
		t.Error("OnSessionInvalid was not called")
	}
}

func TestClient_SuccessBodyMentioningJWTIsNotInvalidating(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.ILog{{
			ID:      1,
			Content: "today I learned what JWT expired errors look like",
		}})
	})

	invalidated := false
	client.OnSessionInvalid = func() { invalidated = true }

	if _, err := client.ListILogs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invalidated {
		t.Error("a 200 response must never invalidate the session")
	}
}

func TestCreateSchedule_AllDaySerialization(t *testing.T) {
	var body map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		w.Write([]byte(`{"id":7,"title":"trip","isAllDay":true,"startTime":"2024-05-21","endTime":"2024-05-22"}`))
	})

	_, err := client.CreateSchedule(ScheduleRequest{
		Title:     "trip",
		StartTime: time.Date(2024, 5, 21, 9, 30, 0, 0, time.Local),
		EndTime:   time.Date(2024, 5, 22, 18, 0, 0, 0, time.Local),
		IsAllDay:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := body["startTime"]; got != "2024-05-21" {
		t.Errorf("startTime = %v, want bare date", got)
	}
	if got := body["endTime"]; got != "2024-05-22" {
		t.Errorf("endTime = %v, want bare date", got)
	}
}

func TestCreateSchedule_TimedSerialization(t *testing.T) {
	var body map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"id":8}`))
	})

	_, err := client.CreateSchedule(ScheduleRequest{
		Title:     "standup",
		StartTime: time.Date(2024, 5, 21, 9, 30, 0, 0, time.Local),
		EndTime:   time.Date(2024, 5, 21, 10, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := body["startTime"]; got != "2024-05-21T09:30:00" {
		t.Errorf("startTime = %v, want date-time", got)
	}
}

func TestScheduleSerialization_NoTagBecomesNull(t *testing.T) {
	var raw map[string]json.RawMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"id":9}`))
	})

	_, err := client.UpdateSchedule(9, ScheduleRequest{
		Title:     "untagged",
		TagID:     models.NoTagID,
		StartTime: time.Date(2024, 5, 21, 9, 0, 0, 0, time.Local),
		EndTime:   time.Date(2024, 5, 21, 10, 0, 0, 0, time.Local),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tagField, ok := raw["tagId"]
	if !ok {
		t.Fatal("payload has no tagId field")
	}
	if string(tagField) != "null" {
		t.Errorf("tagId = %s, want null", tagField)
	}
}

func TestGetILogByDate_NotFoundIsNoEntry(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	invalidated := false
	client.OnSessionInvalid = func() { invalidated = true }

	entry, err := client.GetILogByDate(time.Date(2024, 5, 21, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Errorf("404 should be benign, got error: %v", err)
	}
	if entry != nil {
		t.Errorf("entry = %+v, want nil", entry)
	}
	if invalidated {
		t.Error("404 must not invalidate the session")
	}
}

func TestCreateILog_MultipartShape(t *testing.T) {
	var metaJSON []byte
	var fileNames []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		metaJSON = []byte(r.MultipartForm.Value["request"][0])
		for _, fh := range r.MultipartForm.File["images"] {
			fileNames = append(fileNames, fh.Filename)
		}
		w.Write([]byte(`{"id":3,"logDate":"2024-05-21"}`))
	})

	_, err := client.CreateILog(ILogRequest{
		LogDate:    time.Date(2024, 5, 21, 0, 0, 0, 0, time.Local),
		Content:    "a fine day",
		Visibility: models.VisibilityFriendsOnly,
	}, []Upload{
		{FileName: "morning.jpg", Data: []byte("jpegbytes")},
		{FileName: "evening.jpg", Data: []byte("morejpegbytes")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var meta struct {
		LogDate    string `json:"logDate"`
		Content    string `json:"content"`
		Visibility int    `json:"visibility"`
	}
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		t.Fatalf("request part is not JSON: %v", err)
	}
	if meta.LogDate != "2024-05-21" {
		t.Errorf("logDate = %q, want bare date", meta.LogDate)
	}
	if meta.Visibility != 1 {
		t.Errorf("visibility = %d, want ordinal 1 (FRIENDS_ONLY)", meta.Visibility)
	}
	if len(fileNames) != 2 {
		t.Errorf("got %d image parts, want 2", len(fileNames))
	}
}

func TestExchangeGoogleToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["idToken"] != "google-id-token" {
			t.Errorf("idToken = %q", body["idToken"])
		}
		w.Write([]byte(`{"name":"Kim","email":"kim@example.com","photo":"","token":"backend-jwt"}`))
	})

	sess, err := client.ExchangeGoogleToken("google-id-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "backend-jwt" || sess.Email != "kim@example.com" {
		t.Errorf("session = %+v", sess)
	}
}
