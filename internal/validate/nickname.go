package validate

import (
	"errors"
	"regexp"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultDebounce is how long the checker waits for typing to settle before
// asking the backend about availability.
const DefaultDebounce = 500 * time.Millisecond

var (
	ErrNicknameTooShort = errors.New("nickname must be at least 2 characters")
	ErrNicknameTooLong  = errors.New("nickname must be at most 20 characters")
	ErrNicknameCharset  = errors.New("nickname may only contain letters, digits, _ and -")
)

var nicknamePattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

// ValidateFormat checks the nickname shape locally, before any network call.
func ValidateFormat(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	if n < 2 {
		return ErrNicknameTooShort
	}
	if n > 20 {
		return ErrNicknameTooLong
	}
	if !nicknamePattern.MatchString(nickname) {
		return ErrNicknameCharset
	}
	return nil
}

// AvailabilityFunc asks the backend whether a nickname is free.
type AvailabilityFunc func(nickname string) (bool, error)

// Result is the outcome of one availability check.
type Result struct {
	Nickname  string
	Available bool
	Err       error
}

// NicknameChecker is the single debounced availability service shared by
// every flow that edits a nickname. A new Check cancels the pending one, so
// only the value the user settled on reaches the backend.
type NicknameChecker struct {
	check AvailabilityFunc
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewNicknameChecker wires the checker to a backend call. A non-positive
// delay falls back to DefaultDebounce.
func NewNicknameChecker(check AvailabilityFunc, delay time.Duration) *NicknameChecker {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &NicknameChecker{check: check, delay: delay}
}

// Check schedules a debounced availability check. Format errors are reported
// immediately without touching the network; otherwise done is called with
// the backend's answer once the debounce window elapses without a newer
// Check superseding this one.
func (c *NicknameChecker) Check(nickname string, done func(Result)) {
	if err := ValidateFormat(nickname); err != nil {
		c.Cancel()
		done(Result{Nickname: nickname, Err: err})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.delay, func() {
		available, err := c.check(nickname)
		done(Result{Nickname: nickname, Available: available, Err: err})
	})
}

// CheckNow bypasses the debounce for one-shot command-line use.
func (c *NicknameChecker) CheckNow(nickname string) Result {
	if err := ValidateFormat(nickname); err != nil {
		return Result{Nickname: nickname, Err: err}
	}
	available, err := c.check(nickname)
	return Result{Nickname: nickname, Available: available, Err: err}
}

// Cancel drops any pending check.
func (c *NicknameChecker) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
