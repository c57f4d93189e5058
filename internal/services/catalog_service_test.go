package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/models"
)

func validInterview() models.Interview {
	return models.Interview{
		Title:           "Frontend Basics",
		Difficulty:      "easy",
		DurationMinutes: 30,
		Questions: []models.Question{
			{
				Kind:   models.KindSingleChoice,
				Prompt: "Pick one.",
				Choice: &models.ChoicePayload{Options: []string{"a", "b"}, CorrectIndex: 0},
			},
		},
	}
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestCreateInterview(t *testing.T) {
	repo := &fakeCatalogRepo{interviews: map[string]*models.Interview{}}
	svc := NewCatalogService(repo)

	created, err := svc.CreateInterview(context.Background(), validInterview())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID, "missing ids are generated")
	assert.NotEmpty(t, created.Questions[0].ID)
	assert.Contains(t, repo.interviews, created.ID)
}

func TestCreateInterview_Validation(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogRepo{interviews: map[string]*models.Interview{}})
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.Interview)
	}{
		{"empty title", func(iv *models.Interview) { iv.Title = "  " }},
		{"zero duration", func(iv *models.Interview) { iv.DurationMinutes = 0 }},
		{"bad difficulty", func(iv *models.Interview) { iv.Difficulty = "impossible" }},
		{"bad question kind", func(iv *models.Interview) { iv.Questions[0].Kind = "essay" }},
		{"empty prompt", func(iv *models.Interview) { iv.Questions[0].Prompt = "" }},
		{"missing choice payload", func(iv *models.Interview) { iv.Questions[0].Choice = nil }},
		{"one option", func(iv *models.Interview) {
			iv.Questions[0].Choice = &models.ChoicePayload{Options: []string{"a"}, CorrectIndex: 0}
		}},
		{"correct index out of range", func(iv *models.Interview) {
			iv.Questions[0].Choice.CorrectIndex = 7
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := validInterview()
			tt.mutate(&iv)
			_, err := svc.CreateInterview(ctx, iv)
			assertValidationError(t, err)
		})
	}
}

func TestGetInterview_NotFound(t *testing.T) {
	svc := NewCatalogService(&fakeCatalogRepo{interviews: map[string]*models.Interview{}})

	_, err := svc.GetInterview(context.Background(), "nope")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestUpdateInterview(t *testing.T) {
	repo := &fakeCatalogRepo{interviews: map[string]*models.Interview{}}
	svc := NewCatalogService(repo)
	ctx := context.Background()

	created, err := svc.CreateInterview(ctx, validInterview())
	require.NoError(t, err)

	updated := *created
	updated.Title = "Frontend Basics v2"
	require.NoError(t, svc.UpdateInterview(ctx, updated))
	assert.Equal(t, "Frontend Basics v2", repo.interviews[created.ID].Title)

	missing := validInterview()
	missing.ID = "nope"
	err = svc.UpdateInterview(ctx, missing)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)

	noID := validInterview()
	err = svc.UpdateInterview(ctx, noID)
	assertValidationError(t, err)
}

func TestAddQuestions(t *testing.T) {
	repo := &fakeCatalogRepo{interviews: map[string]*models.Interview{}}
	svc := NewCatalogService(repo)
	ctx := context.Background()

	created, err := svc.CreateInterview(ctx, validInterview())
	require.NoError(t, err)

	n, err := svc.AddQuestions(ctx, created.ID, []models.Question{
		{Kind: models.KindFreeText, Prompt: "Explain.", FreeText: &models.FreeTextPayload{}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, repo.interviews[created.ID].Questions, 2)

	_, err = svc.AddQuestions(ctx, "nope", []models.Question{
		{Kind: models.KindFreeText, Prompt: "Explain.", FreeText: &models.FreeTextPayload{}},
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)

	_, err = svc.AddQuestions(ctx, created.ID, []models.Question{
		{Kind: models.KindCode, Prompt: ""},
	})
	assertValidationError(t, err)
}
