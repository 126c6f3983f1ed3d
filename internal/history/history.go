// Package history keeps the composer's past inputs so they survive restarts
// and can be recalled while typing.
package history

import (
	"os"
	"strings"
	"sync"

	"github.com/duskren/convo/internal/debug"
	"github.com/duskren/convo/internal/file"
)

var log = debug.GetLogger()

// maxEntries bounds the history file; oldest entries are dropped first.
const maxEntries = 1000

// History is an ordered list of past inputs, newest last, with a navigation
// cursor. The cursor sits at -1 when the user is composing fresh input; the
// in-progress draft is parked so navigating back to the present restores it.
type History struct {
	mu      sync.Mutex
	path    string
	entries []string
	cursor  int
	draft   string
}

// New loads the history persisted at path. A missing file is an empty history.
func New(path string) *History {
	h := &History{path: path, cursor: -1}
	h.load()
	return h
}

// Add records an entry and resets navigation. Blank entries and immediate
// duplicates of the newest entry are ignored.
func (h *History) Add(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}

	h.mu.Lock()
	if n := len(h.entries); n == 0 || h.entries[n-1] != entry {
		h.entries = append(h.entries, entry)
		if len(h.entries) > maxEntries {
			h.entries = h.entries[len(h.entries)-maxEntries:]
		}
	}
	h.cursor = -1
	h.draft = ""
	snapshot := make([]string, len(h.entries))
	copy(snapshot, h.entries)
	h.mu.Unlock()

	h.write(snapshot)
}

// Previous steps toward older entries. On the first step it parks draft, the
// composer's current content. The boolean reports whether a step was taken;
// at the oldest entry it re-returns that entry with false.
func (h *History) Previous(draft string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.draft = draft
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	default:
		return h.entries[0], false
	}
	return h.entries[h.cursor], true
}

// Next steps toward newer entries, restoring the parked draft when stepping
// past the newest one.
func (h *History) Next() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return h.draft, true
	}
	return h.entries[h.cursor], true
}

// Reset abandons an in-flight navigation. Call it when the user edits the
// composer mid-navigation.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor = -1
	h.draft = ""
}

func (h *History) load() {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		h.entries = append(h.entries, unescape(line))
	}
	if len(h.entries) > maxEntries {
		h.entries = h.entries[len(h.entries)-maxEntries:]
	}
}

// write persists one entry per line. Failures are logged; history is best
// effort and never blocks composing.
func (h *History) write(entries []string) {
	if err := file.EnsureParentDirectory(h.path); err != nil {
		log.Warn().Err(err).Msg("creating history directory")
		return
	}
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(escape(entry))
		b.WriteString("\n")
	}
	if err := os.WriteFile(h.path, []byte(b.String()), 0644); err != nil {
		log.Warn().Err(err).Msg("writing input history")
	}
}

// escape makes a multi-line entry fit on one line of the history file.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// unescape reverses escape, scanning left to right so an escaped backslash
// followed by a literal n is not misread as a newline.
func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			if r == 'n' {
				b.WriteRune('\n')
			} else {
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
