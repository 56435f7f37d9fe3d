package store

import (
	"sort"
	"sync"
	"time"

	"github.com/ilogapp/ilog-cli/internal/api"
	"github.com/ilogapp/ilog-cli/internal/models"
)

// ILogStore is the in-memory cache of the user's journal entries, kept
// sorted by log date descending. Point lookups by date go to the backend;
// a missing entry is "no entry for that day", not an error.
type ILogStore struct {
	client *api.Client

	mu      sync.RWMutex
	entries []models.ILog
}

// NewILogStore creates an empty store backed by the given client.
func NewILogStore(client *api.Client) *ILogStore {
	return &ILogStore{client: client}
}

// Fetch replaces the cached entry list with the server's, sorted by logDate
// descending. On failure the previous list is untouched.
func (s *ILogStore) Fetch() error {
	entries, err := s.client.ListILogs()
	if err != nil {
		return err
	}
	sortEntries(entries)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Entries returns a snapshot of the cached entries, newest first.
func (s *ILogStore) Entries() []models.ILog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ILog, len(s.entries))
	copy(out, s.entries)
	return out
}

// Create posts a new entry as multipart (JSON metadata plus image parts).
// Content beyond the 2000-character cap is truncated before transmission.
func (s *ILogStore) Create(req api.ILogRequest, images []api.Upload) (*models.ILog, error) {
	req.Content = TruncateContent(req.Content)

	created, err := s.client.CreateILog(req, images)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries = append(s.entries, *created)
	sortEntries(s.entries)
	s.mu.Unlock()
	return created, nil
}

// Update puts the edited entry. Removal of an existing image is expressed by
// omitting its URL from req.KeptImages.
func (s *ILogStore) Update(id int64, req api.ILogRequest, newImages []api.Upload) (*models.ILog, error) {
	req.Content = TruncateContent(req.Content)

	updated, err := s.client.UpdateILog(id, req, newImages)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries[i] = *updated
			break
		}
	}
	sortEntries(s.entries)
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the entry locally only after the server acknowledges.
func (s *ILogStore) Delete(id int64) error {
	if err := s.client.DeleteILog(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return nil
}

// ByDate returns the entry for a calendar date, or (nil, nil) when none.
func (s *ILogStore) ByDate(date time.Time) (*models.ILog, error) {
	return s.client.GetILogByDate(date)
}

// Previous returns the nearest entry before the date, or (nil, nil).
func (s *ILogStore) Previous(date time.Time) (*models.ILog, error) {
	return s.client.GetPreviousILog(date)
}

// Next returns the nearest entry after the date, or (nil, nil).
func (s *ILogStore) Next(date time.Time) (*models.ILog, error) {
	return s.client.GetNextILog(date)
}

// UsedDates returns the set of dates that already carry an entry, keyed by
// yyyy-MM-dd. The date picker disables these.
func (s *ILogStore) UsedDates() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	used := make(map[string]bool, len(s.entries))
	for _, entry := range s.entries {
		used[entry.LogDate.Format(models.DateLayout)] = true
	}
	return used
}

// TruncateContent enforces the journal content cap, counting characters
// rather than bytes so multibyte text truncates cleanly.
func TruncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= models.MaxILogContentLen {
		return content
	}
	return string(runes[:models.MaxILogContentLen])
}

func sortEntries(entries []models.ILog) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LogDate.After(entries[j].LogDate.Time)
	})
}
