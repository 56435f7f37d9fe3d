package validate

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		nickname string
		wantErr  error
	}{
		{"kim", nil},
		{"ha-neul_22", nil},
		{"하늘", nil},
		{"k", ErrNicknameTooShort},
		{"", ErrNicknameTooShort},
		{"abcdefghijklmnopqrstu", ErrNicknameTooLong},
		{"has space", ErrNicknameCharset},
		{"emoji🙂", ErrNicknameCharset},
	}

	for _, tt := range tests {
		t.Run(tt.nickname, func(t *testing.T) {
			err := ValidateFormat(tt.nickname)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFormat(%q) = %v, want %v", tt.nickname, err, tt.wantErr)
			}
		})
	}
}

func TestChecker_DebounceCollapsesRapidCalls(t *testing.T) {
	var calls atomic.Int64
	checker := NewNicknameChecker(func(nickname string) (bool, error) {
		calls.Add(1)
		return nickname == "final", nil
	}, 20*time.Millisecond)

	results := make(chan Result, 3)
	done := func(r Result) { results <- r }

	checker.Check("fi", done)
	checker.Check("fina", done)
	checker.Check("final", done)

	select {
	case r := <-results:
		if r.Nickname != "final" {
			t.Errorf("checked %q, want only the settled value", r.Nickname)
		}
		if !r.Available {
			t.Error("expected final to be available")
		}
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}

	// Give any erroneously unstopped timers a chance to fire.
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("backend called %d times, want 1", got)
	}
}

func TestChecker_FormatErrorSkipsNetwork(t *testing.T) {
	var calls atomic.Int64
	checker := NewNicknameChecker(func(string) (bool, error) {
		calls.Add(1)
		return true, nil
	}, time.Millisecond)

	var got Result
	checker.Check("x", func(r Result) { got = r })

	if !errors.Is(got.Err, ErrNicknameTooShort) {
		t.Errorf("err = %v, want ErrNicknameTooShort", got.Err)
	}

	time.Sleep(20 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("format failure must not reach the backend")
	}
}

func TestChecker_Cancel(t *testing.T) {
	var calls atomic.Int64
	checker := NewNicknameChecker(func(string) (bool, error) {
		calls.Add(1)
		return true, nil
	}, 10*time.Millisecond)

	checker.Check("pending", func(Result) {})
	checker.Cancel()

	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("cancelled check still reached the backend")
	}
}

func TestChecker_CheckNow(t *testing.T) {
	checker := NewNicknameChecker(func(nickname string) (bool, error) {
		return false, nil
	}, time.Hour) // debounce must not apply

	start := time.Now()
	r := checker.CheckNow("taken")
	if time.Since(start) > time.Second {
		t.Fatal("CheckNow must not debounce")
	}
	if r.Err != nil || r.Available {
		t.Errorf("result = %+v, want taken", r)
	}
}
