package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHistoryLimit is how many findings a History keeps when no limit is given.
const DefaultHistoryLimit = 20

// Record is one stored finding.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Artifact  string    `json:"artifact,omitempty"`
	Finding   Finding   `json:"finding"`
}

// History keeps the most recent findings, newest first.
type History struct {
	Records []Record `json:"records"`
	limit   int
	mu      sync.RWMutex
}

// NewHistory creates a history bounded to limit records.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		Records: make([]Record, 0),
		limit:   limit,
	}
}

// Add stores f as the newest record and drops whatever falls past the limit.
func (h *History) Add(f Finding, artifact string, at time.Time) Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec := Record{
		ID:        uuid.NewString(),
		CreatedAt: at.UTC(),
		Artifact:  artifact,
		Finding:   f,
	}
	h.Records = append([]Record{rec}, h.Records...)
	if len(h.Records) > h.limit {
		h.Records = h.Records[:h.limit]
	}
	return rec
}

// Recent returns up to n records, newest first. n <= 0 returns all of them.
func (h *History) Recent(n int) []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > len(h.Records) {
		n = len(h.Records)
	}
	out := make([]Record, n)
	copy(out, h.Records[:n])
	return out
}

// Get looks a record up by ID or ID prefix.
func (h *History) Get(id string) (Record, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range h.Records {
		if r.ID == id || (len(id) >= 8 && strings.HasPrefix(r.ID, id)) {
			return r, true
		}
	}
	return Record{}, false
}

// Save writes the history to path as JSON.
func (h *History) Save(path string) error {
	h.mu.RLock()
	data, err := json.MarshalIndent(h, "", "  ")
	h.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0600)
}

// Load replaces the records with those stored at path. A missing file leaves
// the history empty.
func (h *History) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var stored struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("decode history %s: %w", path, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.Records = stored.Records
	if len(h.Records) > h.limit {
		h.Records = h.Records[:h.limit]
	}
	return nil
}

// Summary returns a text listing of the stored findings.
func (h *History) Summary() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analysis history (%d records):\n", len(h.Records)))
	sb.WriteString("--------------------------------------------------\n")
	for _, r := range h.Records {
		sb.WriteString(fmt.Sprintf("[%3d/100] %-6s %s  %s\n",
			r.Finding.Score, r.Finding.RiskLevel, shortID(r.ID), r.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("  Files: %s\n", strings.Join(r.Finding.Filenames, ", ")))
		if r.Artifact != "" {
			sb.WriteString(fmt.Sprintf("  Report: %s\n", r.Artifact))
		}
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
