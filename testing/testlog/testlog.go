// Package testlog provides a discarding logrus logger for tests and a hook
// that records entries so tests can assert on what was logged.
package testlog

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// Hook records every entry fired on the logger it is installed on.
type Hook struct {
	mu      sync.Mutex
	entries []*logrus.Entry
}

// New returns a logger that writes nowhere, at debug level, with a Hook
// installed.
func New() (*logrus.Logger, *Hook) {
	l := logrus.New()
	l.Out = ioutil.Discard
	l.Level = logrus.DebugLevel

	h := new(Hook)
	l.Hooks.Add(h)

	return l, h
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(e *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, e)
	return nil
}

// Entries returns copies of the recorded entries.
func (h *Hook) Entries() []*logrus.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	res := make([]*logrus.Entry, len(h.entries))
	for i, e := range h.entries {
		res[i] = &logrus.Entry{
			Logger:  e.Logger,
			Time:    e.Time,
			Data:    e.Data,
			Message: e.Message,
			Level:   e.Level,
		}
	}
	return res
}

// LastEntry returns the last recorded entry or nil.
func (h *Hook) LastEntry() *logrus.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i := len(h.entries) - 1; i >= 0 {
		return h.entries[i]
	}
	return nil
}

// Reset drops all recorded entries.
func (h *Hook) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
}

// String renders all recorded entries in logfmt, space separated.
func (h *Hook) String() string {
	var res []string
	for _, e := range h.Entries() {
		if s, err := e.String(); err == nil {
			res = append(res, strings.TrimSpace(s))
		}
	}
	return strings.Join(res, " ")
}

// CheckContained fails tb unless at least one of strs was logged.
func (h *Hook) CheckContained(tb testing.TB, strs ...string) {
	tb.Helper()

	if len(strs) == 0 {
		return
	}

	out := h.String()
	for _, s := range strs {
		if contains(out, s) {
			return
		}
	}
	tb.Fatalf("got entries:\n%v\nexpected to find one of:\n%v", out, strs)
}

// CheckAllContained fails tb unless every one of strs was logged.
func (h *Hook) CheckAllContained(tb testing.TB, strs ...string) {
	tb.Helper()

	out := h.String()
	var missing []string
	for _, s := range strs {
		if !contains(out, s) {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		tb.Fatalf("got entries: `%v` missing: `%v`", out, missing)
	}
}

// CheckNotContained fails tb if any of strs was logged.
func (h *Hook) CheckNotContained(tb testing.TB, strs ...string) {
	tb.Helper()

	out := h.String()
	for _, s := range strs {
		if contains(out, s) {
			tb.Fatalf("got `%s` expected none in %s", s, out)
		}
	}
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, canonicalizeQuotes(needle))
}

// canonicalizeQuotes rewrites key="value" needles the way logrus' text
// formatter would quote value.
func canonicalizeQuotes(str string) string {
	chunks := strings.SplitN(str, "=", 2)
	if len(chunks) != 2 {
		return str
	}

	val, err := strconv.Unquote(chunks[1])
	if err != nil {
		return str
	}
	if needsQuoting(val) {
		return fmt.Sprintf("%s=%q", chunks[0], val)
	}
	return fmt.Sprintf("%s=%s", chunks[0], val)
}

// needsQuoting mirrors logrus.TextFormatter: anything outside
// [a-zA-Z0-9@^_./+-] is quoted.
func needsQuoting(text string) bool {
	for _, ch := range text {
		if !((ch >= '@' && ch <= 'Z') ||
			(ch >= 'a' && ch <= 'z') ||
			(ch >= '.' && ch <= '9') ||
			(ch >= '^' && ch <= '_') ||
			ch == '+' || ch == '-') {
			return true
		}
	}
	return false
}
