package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/metrics"
	"github.com/mfigueira/preptrack/internal/models"
)

// csvHeader is the expected column order of a question import file.
// topics are separated by ';', choice options by '|'.
var csvHeader = []string{"interview_id", "kind", "prompt", "difficulty", "topics", "options", "correct_index", "starter_code", "word_cap"}

// ImportService parses question CSV uploads and loads them into the
// catalog. Parsing is synchronous (so uploads fail fast on bad input);
// the insert runs on the worker pool via ImportQuestionsJob.
type ImportService interface {
	ParseQuestionsCSV(r io.Reader) (map[string][]models.Question, error)
	ImportQuestions(ctx context.Context, batches map[string][]models.Question) (int, error)
}

type importService struct {
	catalog CatalogService
}

// NewImportService creates a new ImportService
func NewImportService(catalog CatalogService) ImportService {
	return &importService{catalog: catalog}
}

func (s *importService) ParseQuestionsCSV(r io.Reader) (map[string][]models.Question, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewBadRequestError("empty or unreadable CSV")
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	batches := make(map[string][]models.Question)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewBadRequestError(fmt.Sprintf("line %d: %v", line, err))
		}
		interviewID, q, err := parseRow(record)
		if err != nil {
			return nil, errors.NewBadRequestError(fmt.Sprintf("line %d: %v", line, err))
		}
		batches[interviewID] = append(batches[interviewID], q)
	}
	if len(batches) == 0 {
		return nil, errors.NewBadRequestError("CSV contains no question rows")
	}
	return batches, nil
}

func (s *importService) ImportQuestions(ctx context.Context, batches map[string][]models.Question) (int, error) {
	log := logger.FromContext(ctx)

	total := 0
	for interviewID, questions := range batches {
		n, err := s.catalog.AddQuestions(ctx, interviewID, questions)
		if err != nil {
			log.Error("failed to import questions for interview %s: %v", interviewID, err)
			return total, err
		}
		total += n
	}
	metrics.QuestionsImported.Add(float64(total))
	log.Info("imported %d questions across %d interviews", total, len(batches))
	return total, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return errors.NewBadRequestError(fmt.Sprintf("expected %d columns, got %d", len(csvHeader), len(header)))
	}
	for i, want := range csvHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return errors.NewBadRequestError(fmt.Sprintf("column %d must be %q", i+1, want))
		}
	}
	return nil
}

func parseRow(record []string) (string, models.Question, error) {
	if len(record) != len(csvHeader) {
		return "", models.Question{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(record))
	}

	interviewID := strings.TrimSpace(record[0])
	if interviewID == "" {
		return "", models.Question{}, fmt.Errorf("interview_id is required")
	}

	q := models.Question{
		Kind:       models.QuestionKind(strings.TrimSpace(record[1])),
		Prompt:     strings.TrimSpace(record[2]),
		Difficulty: strings.TrimSpace(record[3]),
	}
	if q.Difficulty == "" {
		q.Difficulty = "medium"
	}
	if topics := strings.TrimSpace(record[4]); topics != "" {
		for _, t := range strings.Split(topics, ";") {
			if t = strings.TrimSpace(t); t != "" {
				q.Topics = append(q.Topics, t)
			}
		}
	}
	if !q.Kind.Valid() {
		return "", models.Question{}, fmt.Errorf("unknown kind %q", record[1])
	}
	if q.Prompt == "" {
		return "", models.Question{}, fmt.Errorf("prompt is required")
	}

	switch q.Kind {
	case models.KindSingleChoice:
		options := splitOptions(record[5])
		if len(options) < 2 {
			return "", models.Question{}, fmt.Errorf("single_choice needs at least two '|'-separated options")
		}
		idx, err := strconv.Atoi(strings.TrimSpace(record[6]))
		if err != nil || idx < 0 || idx >= len(options) {
			return "", models.Question{}, fmt.Errorf("correct_index must be a valid option index")
		}
		q.Choice = &models.ChoicePayload{Options: options, CorrectIndex: idx}
	case models.KindFreeText:
		payload := &models.FreeTextPayload{}
		if wc := strings.TrimSpace(record[8]); wc != "" {
			n, err := strconv.Atoi(wc)
			if err != nil || n < 0 {
				return "", models.Question{}, fmt.Errorf("word_cap must be a non-negative integer")
			}
			payload.WordCap = n
		}
		q.FreeText = payload
	case models.KindCode:
		q.Code = &models.CodePayload{StarterCode: record[7]}
	case models.KindMarkup:
		q.Markup = &models.MarkupPayload{StarterHTML: record[7]}
	}

	return interviewID, q, nil
}

func splitOptions(s string) []string {
	var out []string
	for _, o := range strings.Split(s, "|") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
