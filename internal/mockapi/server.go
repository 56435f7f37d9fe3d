// Package mockapi is an in-memory stand-in for the ilog backend, used for
// local development and demos. It speaks just enough of the real API for the
// CLI to run against it.
package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ilogapp/ilog-cli/internal/models"
)

// Server holds the mutable in-memory state behind the mock endpoints.
type Server struct {
	mu        sync.Mutex
	schedules map[int64]*models.Schedule
	tags      map[int64]*models.Tag
	ilogs     map[int64]*models.ILog
	profile   models.UserProfile
	nextID    int64
}

// NewServer seeds a server with one demo tag so the CLI has something to
// show right after login.
func NewServer() *Server {
	s := &Server{
		schedules: make(map[int64]*models.Schedule),
		tags:      make(map[int64]*models.Tag),
		ilogs:     make(map[int64]*models.ILog),
		profile: models.UserProfile{
			Nickname: "demo",
			Email:    "demo@ilog.app",
		},
		nextID: 1,
	}
	id := s.allocID()
	s.tags[id] = &models.Tag{ID: id, Label: "Work", Color: "#4DB6AC"}
	return s
}

// Run starts the HTTP server on addr and blocks.
func (s *Server) Run(addr string) error {
	return s.router().Run(addr)
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/auth/google", s.handleGoogleAuth)
	r.POST("/user/fcm-token", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.GET("/schedules", s.handleListSchedules)
	r.POST("/schedules", s.handleCreateSchedule)
	r.PUT("/schedules/:id", s.handleUpdateSchedule)
	r.DELETE("/schedules/:id", s.handleDeleteSchedule)

	r.GET("/tags", s.handleListTags)
	r.POST("/tags", s.handleCreateTag)
	r.PUT("/tags/:id", s.handleUpdateTag)
	r.DELETE("/tags/:id", s.handleDeleteTag)

	r.GET("/i-log", s.handleListILogs)
	r.POST("/i-log", s.handleCreateILog)
	r.PUT("/i-log/:id", s.handleUpdateILog)
	r.DELETE("/i-log/:id", s.handleDeleteILog)
	r.GET("/i-log/date/:date", s.handleILogByDate)
	r.GET("/i-log/previous/:date", s.handleILogPrevious)
	r.GET("/i-log/next/:date", s.handleILogNext)

	r.GET("/user/profile", s.handleGetProfile)
	r.PUT("/user/profile", s.handleUpdateProfile)
	r.GET("/user/profile/check-nickname", s.handleCheckNickname)

	return r
}

func (s *Server) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func pathDate(c *gin.Context) (time.Time, bool) {
	date, err := time.ParseInLocation(models.DateLayout, c.Param("date"), time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return time.Time{}, false
	}
	return date, true
}

// auth

func (s *Server) handleGoogleAuth(c *gin.Context) {
	var body struct {
		IDToken string `json:"idToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idToken required"})
		return
	}
	c.JSON(http.StatusOK, models.Session{
		Name:  "Demo User",
		Email: "demo@ilog.app",
		Token: "mock-jwt-" + strconv.FormatInt(time.Now().Unix(), 10),
	})
}

// schedules

func (s *Server) handleListSchedules(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Schedule, 0, len(s.schedules))
	for _, sched := range s.schedules {
		out = append(out, sched)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateSchedule(c *gin.Context) {
	var sched models.Schedule
	if err := c.ShouldBindJSON(&sched); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sched.ID = s.allocID()
	sched.CreatedAt = models.APITime{Time: time.Now()}
	sched.UpdatedAt = sched.CreatedAt
	s.schedules[sched.ID] = &sched
	c.JSON(http.StatusOK, &sched)
}

func (s *Server) handleUpdateSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var sched models.Schedule
	if err := c.ShouldBindJSON(&sched); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, found := s.schedules[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	sched.ID = id
	sched.CreatedAt = existing.CreatedAt
	sched.UpdatedAt = models.APITime{Time: time.Now()}
	s.schedules[id] = &sched
	c.JSON(http.StatusOK, &sched)
}

func (s *Server) handleDeleteSchedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.schedules[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	delete(s.schedules, id)
	c.Status(http.StatusNoContent)
}

// tags

func (s *Server) handleListTags(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		out = append(out, tag)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateTag(c *gin.Context) {
	var tag models.Tag
	if err := c.ShouldBindJSON(&tag); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tag.ID = s.allocID()
	tag.CreatedAt = models.APITime{Time: time.Now()}
	s.tags[tag.ID] = &tag
	c.JSON(http.StatusOK, &tag)
}

func (s *Server) handleUpdateTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var tag models.Tag
	if err := c.ShouldBindJSON(&tag); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.tags[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	tag.ID = id
	tag.UpdatedAt = models.APITime{Time: time.Now()}
	s.tags[id] = &tag
	c.JSON(http.StatusOK, &tag)
}

// Deleting a tag detaches it from every schedule, mirroring the real
// backend's cascade.
func (s *Server) handleDeleteTag(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.tags[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}
	delete(s.tags, id)
	for _, sched := range s.schedules {
		if sched.TagID == id {
			sched.TagID = models.NoTagID
		}
	}
	c.Status(http.StatusNoContent)
}

// i-log

// ilogMeta is the JSON metadata part of a multipart journal request.
type ilogMeta struct {
	LogDate    models.APIDate    `json:"logDate"`
	Content    string            `json:"content"`
	Visibility models.Visibility `json:"visibility"`
	FriendTags []string          `json:"friendTags"`
	Tags       string            `json:"tags"`
	Images     []string          `json:"images"`
}

// requestPart extracts the JSON metadata part of a multipart request. The
// client sends it as a plain part named "request", without a filename.
func requestPart(form *multipart.Form) ([]byte, bool) {
	if values := form.Value["request"]; len(values) == 1 {
		return []byte(values[0]), true
	}
	// Some clients attach it with a filename, which routes it into File.
	if files := form.File["request"]; len(files) == 1 {
		f, err := files[0].Open()
		if err != nil {
			return nil, false
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			return nil, false
		}
		return raw, true
	}
	return nil, false
}

func (s *Server) readILogMeta(c *gin.Context) (*ilogMeta, []string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return nil, nil, false
	}

	raw, ok := requestPart(form)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request part required"})
		return nil, nil, false
	}

	var meta ilogMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request part"})
		return nil, nil, false
	}

	// Uploaded files are not stored; they become stable fake URLs.
	var uploaded []string
	for _, fh := range form.File["images"] {
		uploaded = append(uploaded, fmt.Sprintf("mock://images/%d-%s", time.Now().UnixNano(), fh.Filename))
	}
	return &meta, uploaded, true
}

func (s *Server) handleListILogs(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ILog, 0, len(s.ilogs))
	for _, entry := range s.ilogs {
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateILog(c *gin.Context) {
	meta, uploaded, ok := s.readILogMeta(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.ilogs {
		if entry.LogDate.Format(models.DateLayout) == meta.LogDate.Format(models.DateLayout) {
			c.JSON(http.StatusConflict, gin.H{"error": "entry already exists for that date"})
			return
		}
	}
	entry := &models.ILog{
		ID:         s.allocID(),
		LogDate:    meta.LogDate,
		Content:    meta.Content,
		Visibility: meta.Visibility,
		Tags:       meta.Tags,
		Images:     uploaded,
		CreatedAt:  models.APITime{Time: time.Now()},
	}
	s.ilogs[entry.ID] = entry
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleUpdateILog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	meta, uploaded, ok := s.readILogMeta(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, found := s.ilogs[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	entry.Content = meta.Content
	entry.Visibility = meta.Visibility
	entry.Tags = meta.Tags
	entry.Images = append(meta.Images, uploaded...)
	c.JSON(http.StatusOK, entry)
}

func (s *Server) handleDeleteILog(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.ilogs[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	delete(s.ilogs, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleILogByDate(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.ilogs {
		if sameDate(entry.LogDate.Time, date) {
			c.JSON(http.StatusOK, entry)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no entry for that date"})
}

func (s *Server) handleILogPrevious(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *models.ILog
	for _, entry := range s.ilogs {
		if entry.LogDate.Before(date) && (best == nil || entry.LogDate.After(best.LogDate.Time)) {
			best = entry
		}
	}
	if best == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no earlier entry"})
		return
	}
	c.JSON(http.StatusOK, best)
}

func (s *Server) handleILogNext(c *gin.Context) {
	date, ok := pathDate(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *models.ILog
	for _, entry := range s.ilogs {
		if entry.LogDate.After(date.AddDate(0, 0, 1).Add(-time.Nanosecond)) &&
			(best == nil || entry.LogDate.Before(best.LogDate.Time)) {
			best = entry
		}
	}
	if best == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no later entry"})
		return
	}
	c.JSON(http.StatusOK, best)
}

// profile

func (s *Server) handleGetProfile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.profile)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	raw, ok := requestPart(form)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request part required"})
		return
	}

	var meta struct {
		Nickname  string `json:"nickname"`
		Biography string `json:"biography"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request part"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Nickname = meta.Nickname
	s.profile.Biography = meta.Biography
	if photos := form.File["images"]; len(photos) > 0 {
		s.profile.PhotoURL = fmt.Sprintf("mock://photos/%s", photos[0].Filename)
	}
	c.JSON(http.StatusOK, s.profile)
}

func (s *Server) handleCheckNickname(c *gin.Context) {
	nickname := c.Query("nickname")
	s.mu.Lock()
	taken := nickname == s.profile.Nickname
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"available": nickname != "" && !taken})
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
