package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/mfigueira/preptrack/internal/errors"
	"github.com/mfigueira/preptrack/internal/logger"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError maps AppError codes to HTTP statuses; anything else is a
// 500 with the cause kept out of the response body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var body errorBody
	status := http.StatusInternalServerError
	body.Error.Code = apperrors.ErrCodeInternal
	body.Error.Message = "internal server error"

	if appErr, ok := err.(*apperrors.AppError); ok {
		status = appErr.Status
		body.Error.Code = appErr.Code
		body.Error.Message = appErr.Message
	}

	if status >= 500 {
		log.Error("request failed: %v", err)
	} else {
		log.Warn("request rejected: %v", err)
	}
	respondJSON(w, status, body)
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
