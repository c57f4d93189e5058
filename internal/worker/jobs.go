package worker

import (
	"context"

	"github.com/mfigueira/preptrack/internal/logger"
	"github.com/mfigueira/preptrack/internal/models"
)

// QuestionImporter is implemented by services.ImportService.
type QuestionImporter interface {
	ImportQuestions(ctx context.Context, batches map[string][]models.Question) (int, error)
}

// ImportQuestionsJob loads an already-parsed CSV batch into the
// catalog. Parsing happens in the request handler so invalid uploads
// are rejected synchronously; only the inserts run in the background.
type ImportQuestionsJob struct {
	Importer QuestionImporter
	Batches  map[string][]models.Question
	Source   string // original filename, for logs only
}

func (j *ImportQuestionsJob) Name() string { return "import_questions" }

func (j *ImportQuestionsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("source", j.Source)

	n, err := j.Importer.ImportQuestions(ctx, j.Batches)
	if err != nil {
		return err
	}
	log.Info("background import finished: %d questions", n)
	return nil
}
