package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"

	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
	"github.com/mfigueira/preptrack/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, result models.AttemptResult) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("appending attempt result: id=%s, interview_id=%s, score=%d", result.ID, result.InterviewID, result.Score)

	topicScores, err := json.Marshal(result.TopicScores)
	if err != nil {
		log.Error("failed to marshal topic scores: %v", err)
		return err
	}

	var rating sql.NullInt64
	var comment sql.NullString
	if result.Feedback != nil {
		rating = sql.NullInt64{Int64: int64(result.Feedback.Rating), Valid: true}
		comment = sql.NullString{String: result.Feedback.Comment, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO attempt_history (id, interview_id, interview_title, start_time, end_time, score, total_questions, correct_answers, status, topic_scores, feedback_rating, feedback_comment)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, result.ID, result.InterviewID, result.InterviewTitle, result.StartTime, result.EndTime,
		result.Score, result.TotalQuestions, result.CorrectAnswers, result.Status, string(topicScores), rating, comment)
	if err != nil {
		log.Error("failed to insert attempt result: %v", err)
		return err
	}
	log.Debug("attempt result inserted: id=%s", result.ID)
	return nil
}

func (r *historyRepository) LoadAll(ctx context.Context, filter models.HistoryFilter) ([]models.AttemptResult, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("loading history: interview_id=%s, limit=%d, offset=%d", filter.InterviewID, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(
		"id", "interview_id", "interview_title", "start_time", "end_time",
		"score", "total_questions", "correct_answers", "status", "topic_scores",
		"feedback_rating", "feedback_comment",
	).From("attempt_history")

	if filter.InterviewID != "" {
		query = query.Where(squirrel.Eq{"interview_id": filter.InterviewID})
	}
	query = query.OrderBy("end_time DESC, created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build history query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query history: %v", err)
		return nil, err
	}
	defer rows.Close()

	results := []models.AttemptResult{}
	for rows.Next() {
		var res models.AttemptResult
		var topicScores string
		var rating sql.NullInt64
		var comment sql.NullString
		if err := rows.Scan(&res.ID, &res.InterviewID, &res.InterviewTitle, &res.StartTime, &res.EndTime,
			&res.Score, &res.TotalQuestions, &res.CorrectAnswers, &res.Status, &topicScores, &rating, &comment); err != nil {
			log.Error("failed to scan history row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(topicScores), &res.TopicScores); err != nil {
			// One unreadable tally must not block the rest of history.
			log.Warn("malformed topic scores for attempt %s: %v", res.ID, err)
			res.TopicScores = map[string]models.TopicScore{}
		}
		if rating.Valid {
			res.Feedback = &models.Feedback{Rating: int(rating.Int64), Comment: comment.String}
		}
		results = append(results, res)
	}
	log.Debug("found %d attempt results", len(results))
	return results, rows.Err()
}

func (r *historyRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Info("clearing attempt history")

	_, err := r.db.ExecContext(ctx, `DELETE FROM attempt_history`)
	if err != nil {
		log.Error("failed to clear history: %v", err)
	}
	return err
}

func (r *historyRepository) SetFeedback(ctx context.Context, attemptID string, feedback models.Feedback) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("setting feedback: attempt_id=%s, rating=%d", attemptID, feedback.Rating)

	res, err := r.db.ExecContext(ctx, `
UPDATE attempt_history
SET feedback_rating = ?, feedback_comment = ?
WHERE id = ?
`, feedback.Rating, feedback.Comment, attemptID)
	if err != nil {
		log.Error("failed to set feedback: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
