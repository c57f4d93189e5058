package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/repository"
)

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new CatalogRepository implementation
func NewCatalogRepository(db *sql.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListInterviews(ctx context.Context) ([]models.InterviewSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("listing interviews")

	rows, err := r.db.QueryContext(ctx, `
SELECT i.id, i.title, i.description, i.difficulty, i.duration_minutes, i.created_at,
       (SELECT COUNT(*) FROM questions q WHERE q.interview_id = i.id) AS question_count
FROM interviews i
ORDER BY i.created_at ASC
`)
	if err != nil {
		log.Error("failed to list interviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.InterviewSummary
	for rows.Next() {
		var s models.InterviewSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Difficulty, &s.DurationMinutes, &s.CreatedAt, &s.QuestionCount); err != nil {
			log.Error("failed to scan interview row: %v", err)
			return nil, err
		}
		out = append(out, s)
	}
	log.Debug("found %d interviews", len(out))
	return out, rows.Err()
}

func (r *catalogRepository) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("getting interview: id=%s", id)

	var iv models.Interview
	err := r.db.QueryRowContext(ctx, `
SELECT id, title, description, difficulty, duration_minutes, created_at, updated_at
FROM interviews
WHERE id = ?
`, id).Scan(&iv.ID, &iv.Title, &iv.Description, &iv.Difficulty, &iv.DurationMinutes, &iv.CreatedAt, &iv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("interview not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get interview: %v", err)
		return nil, err
	}

	questions, err := r.questionsForInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	iv.Questions = questions
	return &iv, nil
}

func (r *catalogRepository) questionsForInterview(ctx context.Context, interviewID string) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, kind, prompt, difficulty, topics, payload, created_at
FROM questions
WHERE interview_id = ?
ORDER BY position ASC
`, interviewID)
	if err != nil {
		log.Error("failed to query questions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var topics, payload string
		if err := rows.Scan(&q.ID, &q.Kind, &q.Prompt, &q.Difficulty, &topics, &payload, &q.CreatedAt); err != nil {
			log.Error("failed to scan question row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(topics), &q.Topics); err != nil {
			log.Warn("malformed topics for question %s: %v", q.ID, err)
			q.Topics = nil
		}
		if err := decodePayload(&q, []byte(payload)); err != nil {
			log.Error("malformed payload for question %s: %v", q.ID, err)
			return nil, err
		}
		questions = append(questions, q)
	}
	log.Debug("found %d questions for interview %s", len(questions), interviewID)
	return questions, rows.Err()
}

func (r *catalogRepository) InsertInterview(ctx context.Context, interview models.Interview) error {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("inserting interview: id=%s", interview.ID)

	err := tx(ctx, r.db, func(t *sql.Tx) error {
		_, err := t.ExecContext(ctx, `
INSERT INTO interviews (id, title, description, difficulty, duration_minutes)
VALUES (?, ?, ?, ?, ?)
`, interview.ID, interview.Title, interview.Description, interview.Difficulty, interview.DurationMinutes)
		if err != nil {
			return err
		}
		return insertQuestionsTx(ctx, t, interview.ID, 0, interview.Questions)
	})
	if err != nil {
		log.Error("failed to insert interview: %v", err)
		return err
	}
	log.Debug("interview inserted: id=%s", interview.ID)
	return nil
}

func (r *catalogRepository) UpdateInterview(ctx context.Context, interview models.Interview) error {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("updating interview: id=%s", interview.ID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		_, err := t.ExecContext(ctx, `
UPDATE interviews
SET title = ?, description = ?, difficulty = ?, duration_minutes = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, interview.Title, interview.Description, interview.Difficulty, interview.DurationMinutes, interview.ID)
		if err != nil {
			return err
		}
		if interview.Questions == nil {
			return nil
		}
		// Full question list replacement keeps positions consistent.
		if _, err := t.ExecContext(ctx, `DELETE FROM questions WHERE interview_id = ?`, interview.ID); err != nil {
			return err
		}
		return insertQuestionsTx(ctx, t, interview.ID, 0, interview.Questions)
	})
}

func (r *catalogRepository) InsertQuestions(ctx context.Context, interviewID string, questions []models.Question) error {
	log := logger.FromContext(ctx).WithPrefix("catalog_repo")
	log.Debug("inserting %d questions: interview_id=%s", len(questions), interviewID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		var next int
		if err := t.QueryRowContext(ctx, `SELECT COALESCE(MAX(position)+1, 0) FROM questions WHERE interview_id = ?`, interviewID).Scan(&next); err != nil {
			return err
		}
		return insertQuestionsTx(ctx, t, interviewID, next, questions)
	})
}

func insertQuestionsTx(ctx context.Context, t *sql.Tx, interviewID string, startPos int, questions []models.Question) error {
	for i, q := range questions {
		topics, err := json.Marshal(q.Topics)
		if err != nil {
			return err
		}
		payload, err := encodePayload(q)
		if err != nil {
			return err
		}
		_, err = t.ExecContext(ctx, `
INSERT INTO questions (id, interview_id, position, kind, prompt, difficulty, topics, payload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, q.ID, interviewID, startPos+i, q.Kind, q.Prompt, q.Difficulty, string(topics), string(payload))
		if err != nil {
			return err
		}
	}
	return nil
}

func encodePayload(q models.Question) ([]byte, error) {
	switch q.Kind {
	case models.KindSingleChoice:
		return json.Marshal(q.Choice)
	case models.KindFreeText:
		return json.Marshal(q.FreeText)
	case models.KindCode:
		return json.Marshal(q.Code)
	case models.KindMarkup:
		return json.Marshal(q.Markup)
	}
	return nil, fmt.Errorf("unknown question kind %q", q.Kind)
}

func decodePayload(q *models.Question, payload []byte) error {
	switch q.Kind {
	case models.KindSingleChoice:
		q.Choice = &models.ChoicePayload{}
		return json.Unmarshal(payload, q.Choice)
	case models.KindFreeText:
		q.FreeText = &models.FreeTextPayload{}
		return json.Unmarshal(payload, q.FreeText)
	case models.KindCode:
		q.Code = &models.CodePayload{}
		return json.Unmarshal(payload, q.Code)
	case models.KindMarkup:
		q.Markup = &models.MarkupPayload{}
		return json.Unmarshal(payload, q.Markup)
	}
	return fmt.Errorf("unknown question kind %q", q.Kind)
}
