package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ilogapp/ilog-cli/internal/api"
)

// reportError prints an API failure in a user-friendly way. Session
// invalidation gets its own message because the stored session has already
// been cleared by the time we see the error.
func reportError(err error) {
	if errors.Is(err, api.ErrSessionInvalid) {
		fmt.Println("🔒 Your session has expired or the server is unreachable.")
		fmt.Println("💡 Sign in again with 'ilog login'")
		return
	}
	fmt.Printf("❌ %v\n", err)
}

// parseDateArg interprets an optional yyyy-MM-dd argument, defaulting to
// today when absent.
func parseDateArg(args []string) (time.Time, error) {
	if len(args) == 0 {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-MM-dd", args[0])
	}
	return t, nil
}

// parseID parses a numeric entity ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// readUploads loads image files from disk for a multipart request.
func readUploads(paths []string) ([]api.Upload, error) {
	var uploads []api.Upload
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read image %s: %w", path, err)
		}
		uploads = append(uploads, api.Upload{FileName: filepath.Base(path), Data: data})
	}
	return uploads, nil
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
