package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/worker"
)

const maxImportSize = 8 << 20 // 8 MiB

// handleImportQuestions accepts a CSV upload, either as a multipart
// form field named "file" or as the raw request body. The CSV is
// parsed synchronously so malformed uploads fail with 400; the
// database inserts run on the import pool and the handler returns 202.
func (s *Server) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	body, source, err := importBody(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer body.Close()

	batches, err := s.ImportService.ParseQuestionsCSV(body)
	if err != nil {
		respondError(w, r, err)
		return
	}

	total := 0
	for _, questions := range batches {
		total += len(questions)
	}
	if total == 0 {
		respondError(w, r, errors.NewBadRequestError("no questions found in upload"))
		return
	}

	job := &worker.ImportQuestionsJob{
		Importer: s.ImportService,
		Batches:  batches,
		Source:   source,
	}
	if !s.ImportPool.TrySubmit(job) {
		respondError(w, r, errors.NewConflictError("import queue is full, retry later"))
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"queued":    true,
		"questions": total,
	})
}

func importBody(r *http.Request) (io.ReadCloser, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			return nil, "", errors.NewBadRequestError("invalid multipart form")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.NewBadRequestError("multipart form must include a \"file\" field")
		}
		return file, header.Filename, nil
	}
	return http.MaxBytesReader(nil, r.Body, maxImportSize), "request body", nil
}
