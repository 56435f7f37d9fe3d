package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ilogapp/ilog-cli/internal/api"
	"github.com/ilogapp/ilog-cli/internal/models"
)

var (
	// ErrEndBeforeStart rejects a schedule whose end precedes its start.
	// Raised before any network call is issued.
	ErrEndBeforeStart = errors.New("end time is before start time")

	// ErrReservedTag guards the tagId=0 "no tag" sentinel, which is never
	// edited or deleted.
	ErrReservedTag = errors.New("tag 0 is reserved")
)

// RecordState tags a cached schedule as local-only or server-confirmed.
type RecordState int

const (
	// StatePending marks a record inserted locally while its create round-trip
	// is still in flight. Pending records carry no server id.
	StatePending RecordState = iota
	// StateConfirmed marks a record echoed by the server.
	StateConfirmed
)

// Record is a cached schedule together with its reconciliation state.
type Record struct {
	models.Schedule
	State RecordState

	// seq identifies a pending placeholder across list mutations. Positions
	// shift while the create round-trip is in flight, so reconciliation must
	// not rely on a slice index.
	seq int64
}

// defaultTagColor is rendered for schedules without a tag.
const defaultTagColor = "#9E9E9E"

// ScheduleStore is the in-memory source of truth for the signed-in user's
// schedules and tags, synchronized with the backend. Every mutation is
// server-confirmed: local state changes only after the server acknowledges,
// except for the pending placeholder a create shows while in flight.
type ScheduleStore struct {
	client *api.Client

	mu       sync.RWMutex
	records  []Record
	tags     []models.Tag
	tagColor map[int64]string
	nextSeq  int64
}

// NewScheduleStore creates an empty store backed by the given client.
func NewScheduleStore(client *api.Client) *ScheduleStore {
	return &ScheduleStore{client: client}
}

// Fetch replaces the cached schedule list with the server's. On failure the
// previous list is left untouched and the error surfaces to the caller.
func (s *ScheduleStore) Fetch() error {
	schedules, err := s.client.ListSchedules()
	if err != nil {
		return err
	}

	records := make([]Record, len(schedules))
	for i, sched := range schedules {
		records[i] = Record{Schedule: sched, State: StateConfirmed}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// Schedules returns a snapshot of the cached records.
func (s *ScheduleStore) Schedules() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FindByID returns the cached record with the given server id.
func (s *ScheduleStore) FindByID(id int64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id && rec.State == StateConfirmed {
			return rec, true
		}
	}
	return Record{}, false
}

// OnDate returns the cached schedules that overlap the given calendar date,
// used by the month, week, and day views.
func (s *ScheduleStore) OnDate(date time.Time) []Record {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, rec := range s.records {
		start := rec.StartTime.Time
		end := rec.EndTime.Time
		if rec.IsAllDay {
			// All-day entries carry date-only times; compare by date.
			end = end.AddDate(0, 0, 1)
		}
		if start.Before(dayEnd) && end.After(dayStart) {
			out = append(out, rec)
		}
	}
	return out
}

// Create posts a new schedule. A pending placeholder is visible while the
// round-trip is in flight; on ack it is swapped for the server's canonical
// record (with assigned id and timestamps), on failure it is removed and
// local state is unchanged.
func (s *ScheduleStore) Create(req api.ScheduleRequest) (*models.Schedule, error) {
	if err := validateRange(req); err != nil {
		return nil, err
	}

	pending := Record{
		Schedule: models.Schedule{
			TagID:       req.TagID,
			Title:       req.Title,
			Location:    req.Location,
			Description: req.Description,
			StartTime:   models.APITime{Time: req.StartTime},
			EndTime:     models.APITime{Time: req.EndTime},
			IsAllDay:    req.IsAllDay,
			RRule:       req.RRule,
			CalendarID:  req.CalendarID,
		},
		State: StatePending,
	}

	s.mu.Lock()
	s.nextSeq++
	pending.seq = s.nextSeq
	s.records = append(s.records, pending)
	s.mu.Unlock()

	created, err := s.client.CreateSchedule(req)

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.findSeq(pending.seq)
	if err != nil {
		if idx >= 0 {
			s.records = append(s.records[:idx], s.records[idx+1:]...)
		}
		return nil, err
	}
	confirmed := Record{Schedule: *created, State: StateConfirmed}
	if idx >= 0 {
		s.records[idx] = confirmed
	} else {
		// The placeholder was dropped by a concurrent fetch; the confirmed
		// record is still the server's truth, so it joins the list.
		s.records = append(s.records, confirmed)
	}
	return created, nil
}

// findSeq locates a pending placeholder by its sequence number. Callers hold
// the lock. Returns -1 when the placeholder is gone.
func (s *ScheduleStore) findSeq(seq int64) int {
	for i, rec := range s.records {
		if rec.State == StatePending && rec.seq == seq {
			return i
		}
	}
	return -1
}

// Update puts the edited schedule and replaces the cached entry with the
// server's echoed record, not the locally edited one, so server-derived
// fields stay consistent.
func (s *ScheduleStore) Update(id int64, req api.ScheduleRequest) (*models.Schedule, error) {
	if err := validateRange(req); err != nil {
		return nil, err
	}

	updated, err := s.client.UpdateSchedule(id, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records[i] = Record{Schedule: *updated, State: StateConfirmed}
			break
		}
	}
	return updated, nil
}

// Delete removes the schedule locally only after the server acknowledges.
func (s *ScheduleStore) Delete(id int64) error {
	if err := s.client.DeleteSchedule(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func validateRange(req api.ScheduleRequest) error {
	if req.EndTime.Before(req.StartTime) {
		return fmt.Errorf("%w: %s > %s", ErrEndBeforeStart,
			req.StartTime.Format(models.DateTimeLayout), req.EndTime.Format(models.DateTimeLayout))
	}
	return nil
}

// Tag operations. Deletion cascades server-side: affected schedules are
// reassigned to "no tag", so the schedule list is refetched afterwards.

// FetchTags replaces the cached tag list and rebuilds the color map.
func (s *ScheduleStore) FetchTags() error {
	tags, err := s.client.ListTags()
	if err != nil {
		return err
	}
	s.setTags(tags)
	return nil
}

// Tags returns a snapshot of the cached tags.
func (s *ScheduleStore) Tags() []models.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// CreateTag posts a new tag and appends the server's record.
func (s *ScheduleStore) CreateTag(label, color string) (*models.Tag, error) {
	created, err := s.client.CreateTag(label, color)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tags = append(s.tags, *created)
	tags := make([]models.Tag, len(s.tags))
	copy(tags, s.tags)
	s.mu.Unlock()

	s.setTags(tags)
	return created, nil
}

// UpdateTag puts the edited tag and swaps in the server's echo.
func (s *ScheduleStore) UpdateTag(id int64, label, color string) (*models.Tag, error) {
	if id == models.NoTagID {
		return nil, ErrReservedTag
	}

	updated, err := s.client.UpdateTag(id, label, color)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i, tag := range s.tags {
		if tag.ID == id {
			s.tags[i] = *updated
			break
		}
	}
	tags := make([]models.Tag, len(s.tags))
	copy(tags, s.tags)
	s.mu.Unlock()

	s.setTags(tags)
	return updated, nil
}

// DeleteTag removes a tag after server ack and patches affected cached
// schedules down to "no tag", mirroring the server-side cascade.
func (s *ScheduleStore) DeleteTag(id int64) error {
	if id == models.NoTagID {
		return ErrReservedTag
	}

	if err := s.client.DeleteTag(id); err != nil {
		return err
	}

	s.mu.Lock()
	for i, tag := range s.tags {
		if tag.ID == id {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			break
		}
	}
	for i := range s.records {
		if s.records[i].TagID == id {
			s.records[i].TagID = models.NoTagID
		}
	}
	tags := make([]models.Tag, len(s.tags))
	copy(tags, s.tags)
	s.mu.Unlock()

	s.setTags(tags)
	return nil
}

// setTags installs a new tag list and rebuilds the color map once. Rendering
// then resolves colors by map lookup instead of a per-item linear search.
func (s *ScheduleStore) setTags(tags []models.Tag) {
	colors := make(map[int64]string, len(tags))
	for _, tag := range tags {
		colors[tag.ID] = tag.Color
	}

	s.mu.Lock()
	s.tags = tags
	s.tagColor = colors
	s.mu.Unlock()
}

// ColorFor resolves a tag id to its display color. Unknown ids and the
// "no tag" sentinel get the neutral default.
func (s *ScheduleStore) ColorFor(tagID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if color, ok := s.tagColor[tagID]; ok && color != "" {
		return color
	}
	return defaultTagColor
}

// LabelFor resolves a tag id to its label, or "" when untagged.
func (s *ScheduleStore) LabelFor(tagID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tag := range s.tags {
		if tag.ID == tagID {
			return tag.Label
		}
	}
	return ""
}
