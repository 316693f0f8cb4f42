package analysis

import (
	"errors"
	"net/http"

	"github.com/VasiliyTop/AI-finanalitik/pkg/models/api"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/domain"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/workflow"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/runs"
	"github.com/rs/zerolog"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTransaction),
		errors.Is(err, domain.ErrInvalidGranularity),
		errors.Is(err, domain.ErrInvalidConfiguration),
		errors.Is(err, domain.ErrInsufficientHistory),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, ingest.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownSubject),
		errors.Is(err, domain.ErrUnknownProfile),
		errors.Is(err, runs.ErrNoRuns),
		errors.Is(err, runs.ErrRunNotFound),
		errors.Is(err, workflow.ErrNotScheduled):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrAlreadyScheduled):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorStatus(w, r, statusFor(err), err)
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Msg("request rejected")
	}
	writeJSON(w, r, status, api.Error{Error: err.Error()})
}
