package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// DefaultTailLimit is used when Tail is called with a non-positive limit.
const DefaultTailLimit = 100

const maxLineSize = 1 << 20

// Entry is one record of the JSON log file.
type Entry struct {
	Time      time.Time `json:"time"`
	Level     string    `json:"level"`
	Component string    `json:"component,omitempty"`
	Message   string    `json:"message"`
}

type rawEntry struct {
	Time      time.Time `json:"time"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Msg       string    `json:"msg"`
}

// Tail returns up to limit entries from the log file at path, newest first.
// Lines that are not JSON records are skipped. A missing file yields no
// entries.
func Tail(path string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultTailLimit
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	ring := make([]Entry, 0, limit)
	next := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		var raw rawEntry
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil || raw.Msg == "" {
			continue
		}
		e := Entry{Time: raw.Time, Level: raw.Level, Component: raw.Component, Message: raw.Msg}
		if len(ring) < limit {
			ring = append(ring, e)
			continue
		}
		ring[next] = e
		next = (next + 1) % limit
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	out := make([]Entry, 0, len(ring))
	for i := len(ring) - 1; i >= 0; i-- {
		out = append(out, ring[(next+i)%len(ring)])
	}
	return out, nil
}
