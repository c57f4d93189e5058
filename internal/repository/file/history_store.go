package file

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/repository"
)

// HistoryStore persists attempt history as a single JSON array in one
// file, mirroring the browser local-storage shape the frontend expects.
// A missing or unparsable file degrades to empty history. Writes are
// last-write-wins across processes; only process-local access is
// serialized.
type HistoryStore struct {
	mu   sync.Mutex
	path string
}

// NewHistoryStore creates a file-backed HistoryRepository at path.
func NewHistoryStore(path string) repository.HistoryRepository {
	return &HistoryStore{path: path}
}

func (s *HistoryStore) Append(ctx context.Context, result models.AttemptResult) error {
	log := logger.FromContext(ctx).WithPrefix("history_file")
	log.Debug("appending attempt result: id=%s", result.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.read(log)
	// Most recent first.
	results = append([]models.AttemptResult{result}, results...)
	return s.write(log, results)
}

func (s *HistoryStore) LoadAll(ctx context.Context, filter models.HistoryFilter) ([]models.AttemptResult, error) {
	log := logger.FromContext(ctx).WithPrefix("history_file")

	s.mu.Lock()
	results := s.read(log)
	s.mu.Unlock()

	if filter.InterviewID != "" {
		filtered := results[:0]
		for _, r := range results {
			if r.InterviewID == filter.InterviewID {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(results) {
			return []models.AttemptResult{}, nil
		}
		results = results[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(results) {
		results = results[:filter.Limit]
	}
	log.Debug("loaded %d attempt results", len(results))
	return results, nil
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("history_file")
	log.Info("clearing attempt history")

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(log, []models.AttemptResult{})
}

func (s *HistoryStore) SetFeedback(ctx context.Context, attemptID string, feedback models.Feedback) error {
	log := logger.FromContext(ctx).WithPrefix("history_file")
	log.Debug("setting feedback: attempt_id=%s", attemptID)

	s.mu.Lock()
	defer s.mu.Unlock()

	results := s.read(log)
	for i := range results {
		if results[i].ID == attemptID {
			fb := feedback
			results[i].Feedback = &fb
			return s.write(log, results)
		}
	}
	return sql.ErrNoRows
}

// read returns the persisted list, or an empty list when the file is
// missing or corrupt. Corrupt storage must never propagate an error.
func (s *HistoryStore) read(log *logger.Logger) []models.AttemptResult {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("failed to read history file: %v", err)
		}
		return []models.AttemptResult{}
	}

	var results []models.AttemptResult
	if err := json.Unmarshal(data, &results); err != nil {
		log.Warn("history file is corrupt, treating as empty: %v", err)
		return []models.AttemptResult{}
	}
	return results
}

// write replaces the whole file via a temp-file rename so readers never
// observe a half-written array.
func (s *HistoryStore) write(log *logger.Logger, results []models.AttemptResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Error("failed to marshal history: %v", err)
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.json")
	if err != nil {
		log.Error("failed to create temp history file: %v", err)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		log.Error("failed to write history file: %v", err)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		log.Error("failed to replace history file: %v", err)
		return err
	}
	return nil
}
