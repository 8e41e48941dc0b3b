package wrappers

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/verity-adk/pkg/engine"
	"github.com/user/verity-adk/pkg/logger"
	"github.com/user/verity-adk/pkg/report"
)

// Session is the state the agent tools and the CLI commands share: how to
// normalize, how to render, where reports go, and the finding history.
type Session struct {
	Normalizer  *engine.Normalizer
	Renderer    *report.Renderer
	History     *engine.History
	HistoryPath string // empty keeps history in memory only
	Layout      report.LayoutConfig
	OutputDir   string
	Now         func() time.Time
	Log         *zap.Logger

	mu   sync.Mutex
	last *engine.Finding
}

// NewSession wires a session with the default layout and clock.
func NewSession(log *zap.Logger) *Session {
	log = logger.OrNop(log)
	return &Session{
		Normalizer: engine.NewNormalizer(log),
		Renderer:   report.NewRenderer(report.WithLogger(log)),
		History:    engine.NewHistory(engine.DefaultHistoryLimit),
		Layout:     report.DefaultLayout(),
		OutputDir:  ".",
		Now:        time.Now,
		Log:        log,
	}
}

// Normalize normalizes raw and remembers the result as the current finding.
func (s *Session) Normalize(raw any, filenames []string) (engine.Finding, error) {
	f, err := s.Normalizer.Normalize(raw, filenames)
	if err != nil {
		return engine.Finding{}, err
	}
	s.mu.Lock()
	s.last = &f
	s.mu.Unlock()
	return f, nil
}

// Last returns the most recently normalized finding.
func (s *Session) Last() (engine.Finding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return engine.Finding{}, false
	}
	return *s.last, true
}

// Rendered describes a report written to disk.
type Rendered struct {
	Path   string
	Pages  int
	Record engine.Record
}

// RenderToFile lays f out, writes the PDF into OutputDir and records it in
// the history.
func (s *Session) RenderToFile(f engine.Finding) (Rendered, error) {
	now := s.Now()
	pages, err := s.Renderer.Render(f, s.Layout)
	if err != nil {
		return Rendered{}, err
	}

	var buf bytes.Buffer
	if err := report.EncodePDF(&buf, pages, s.Layout, report.WithCreationDate(now)); err != nil {
		return Rendered{}, err
	}

	if err := os.MkdirAll(s.OutputDir, 0755); err != nil {
		return Rendered{}, fmt.Errorf("create output dir: %w", err)
	}
	path, err := writeUnique(s.OutputDir, report.ArtifactName(f, now), buf.Bytes())
	if err != nil {
		return Rendered{}, fmt.Errorf("write report: %w", err)
	}

	rec := s.History.Add(f, path, now)
	if err := s.saveHistory(); err != nil {
		s.Log.Warn("history not saved", zap.String("path", s.HistoryPath), zap.Error(err))
	}

	s.Log.Info("report written",
		zap.String("path", path),
		zap.Int("pages", len(pages)),
		zap.Int("score", f.Score))
	return Rendered{Path: path, Pages: len(pages), Record: rec}, nil
}

// writeUnique writes data to dir/name, or to name-2, name-3 and so on when
// an earlier report already holds the name. Existing files are never replaced.
func writeUnique(dir, name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := name
		if n > 1 {
			candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		path := filepath.Join(dir, candidate)
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := file.Write(data); err != nil {
			file.Close()
			return "", err
		}
		return path, file.Close()
	}
}

// LoadHistory reads the persisted history, if any.
func (s *Session) LoadHistory() error {
	if s.HistoryPath == "" {
		return nil
	}
	return s.History.Load(s.HistoryPath)
}

func (s *Session) saveHistory() error {
	if s.HistoryPath == "" {
		return nil
	}
	return s.History.Save(s.HistoryPath)
}
