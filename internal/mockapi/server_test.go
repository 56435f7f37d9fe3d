package mockapi

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ilogapp/ilog-cli/internal/api"
	"github.com/ilogapp/ilog-cli/internal/models"
)

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(NewServer().router())
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second)
	client.TokenFunc = func() string { return "test-token" }
	return client
}

func TestScheduleRoundtrip(t *testing.T) {
	client := newTestClient(t)

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)
	created, err := client.CreateSchedule(api.ScheduleRequest{
		Title:     "Standup",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateSchedule() error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created schedule has no id")
	}
	if !created.StartTime.Equal(start) {
		t.Errorf("start = %v, want %v", created.StartTime.Time, start)
	}

	list, err := client.ListSchedules()
	if err != nil {
		t.Fatalf("ListSchedules() error = %v", err)
	}
	if len(list) != 1 || list[0].Title != "Standup" {
		t.Errorf("list = %+v, want the created schedule", list)
	}

	if err := client.DeleteSchedule(created.ID); err != nil {
		t.Fatalf("DeleteSchedule() error = %v", err)
	}
	if err := client.DeleteSchedule(created.ID); err == nil {
		t.Error("second delete should fail")
	}
}

func TestTagDeleteDetachesSchedules(t *testing.T) {
	client := newTestClient(t)

	tag, err := client.CreateTag("Gym", "#FF8A65")
	if err != nil {
		t.Fatalf("CreateTag() error = %v", err)
	}

	start := time.Date(2026, 9, 2, 18, 0, 0, 0, time.Local)
	created, err := client.CreateSchedule(api.ScheduleRequest{
		TagID:     tag.ID,
		Title:     "Leg day",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSchedule() error = %v", err)
	}
	if created.TagID != tag.ID {
		t.Fatalf("created tagId = %d, want %d", created.TagID, tag.ID)
	}

	if err := client.DeleteTag(tag.ID); err != nil {
		t.Fatalf("DeleteTag() error = %v", err)
	}

	list, err := client.ListSchedules()
	if err != nil {
		t.Fatalf("ListSchedules() error = %v", err)
	}
	if list[0].TagID != models.NoTagID {
		t.Errorf("schedule still carries tagId %d after tag delete", list[0].TagID)
	}
}

func TestILogLifecycle(t *testing.T) {
	client := newTestClient(t)

	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	entry, err := client.CreateILog(api.ILogRequest{
		LogDate:    date,
		Content:    "quiet day",
		Visibility: models.VisibilityPrivate,
		Tags:       "#rest",
	}, []api.Upload{{FileName: "sunset.jpg", Data: []byte("fake")}})
	if err != nil {
		t.Fatalf("CreateILog() error = %v", err)
	}
	if len(entry.Images) != 1 {
		t.Errorf("images = %v, want one uploaded url", entry.Images)
	}

	// One entry per date.
	if _, err := client.CreateILog(api.ILogRequest{LogDate: date, Content: "again"}, nil); err == nil {
		t.Error("duplicate date should be rejected")
	}

	got, err := client.GetILogByDate(date)
	if err != nil {
		t.Fatalf("GetILogByDate() error = %v", err)
	}
	if got == nil || got.Content != "quiet day" {
		t.Fatalf("GetILogByDate() = %+v, want the entry", got)
	}

	// A missing date is benign.
	missing, err := client.GetILogByDate(date.AddDate(0, 0, 5))
	if err != nil || missing != nil {
		t.Errorf("lookup on empty date = (%+v, %v), want (nil, nil)", missing, err)
	}

	// Previous/next navigate by log date.
	later := date.AddDate(0, 0, 3)
	if _, err := client.CreateILog(api.ILogRequest{LogDate: later, Content: "back at it"}, nil); err != nil {
		t.Fatalf("CreateILog() error = %v", err)
	}
	prev, err := client.GetPreviousILog(later)
	if err != nil || prev == nil || !prev.LogDate.Equal(date) {
		t.Errorf("previous = %+v, %v; want the first entry", prev, err)
	}
	next, err := client.GetNextILog(date)
	if err != nil || next == nil || !next.LogDate.Equal(later) {
		t.Errorf("next = %+v, %v; want the later entry", next, err)
	}

	// Update keeps the listed images and appends new uploads.
	updated, err := client.UpdateILog(entry.ID, api.ILogRequest{
		LogDate:    date,
		Content:    "quiet day, edited",
		KeptImages: entry.Images,
	}, []api.Upload{{FileName: "moon.jpg", Data: []byte("fake2")}})
	if err != nil {
		t.Fatalf("UpdateILog() error = %v", err)
	}
	if len(updated.Images) != 2 {
		t.Errorf("images after update = %v, want kept + new", updated.Images)
	}

	if err := client.DeleteILog(entry.ID); err != nil {
		t.Fatalf("DeleteILog() error = %v", err)
	}
}

func TestProfileAndNickname(t *testing.T) {
	client := newTestClient(t)

	profile, err := client.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.Nickname != "demo" {
		t.Errorf("nickname = %q, want seeded demo", profile.Nickname)
	}

	available, err := client.CheckNickname("demo")
	if err != nil || available {
		t.Errorf("CheckNickname(demo) = (%v, %v), want taken", available, err)
	}
	available, err = client.CheckNickname("someone-else")
	if err != nil || !available {
		t.Errorf("CheckNickname(someone-else) = (%v, %v), want available", available, err)
	}

	updated, err := client.UpdateProfile(api.ProfileRequest{
		Nickname:  "hana",
		Biography: "journaling daily",
		Photo:     &api.Upload{FileName: "me.png", Data: []byte("png")},
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Nickname != "hana" || updated.PhotoURL == "" {
		t.Errorf("updated profile = %+v", updated)
	}
}

func TestGoogleAuthRequiresToken(t *testing.T) {
	client := newTestClient(t)

	sess, err := client.ExchangeGoogleToken("fake-google-id-token")
	if err != nil {
		t.Fatalf("ExchangeGoogleToken() error = %v", err)
	}
	if sess.Token == "" {
		t.Error("exchange returned an empty token")
	}
}
