package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/droplets-system/epoch/engine/access/rest/middleware"
	"github.com/droplets-system/epoch/engine/access/rest/models"
)

// ApiHandlerFunc is a function that contains endpoint handling logic,
// it fetches necessary resources and returns an error or response model.
type ApiHandlerFunc func(r *http.Request, api API) (interface{}, error)

// Handler is custom http handler implementing custom handler function.
// Handler function allows easier handling of errors and responses as it
// wraps functionality for handling error and responses outside of endpoint handling.
type Handler struct {
	logger      zerolog.Logger
	api         API
	handlerFunc ApiHandlerFunc
}

func NewHandler(logger zerolog.Logger, api API, handlerFunc ApiHandlerFunc) *Handler {
	return &Handler{
		logger:      logger,
		api:         api,
		handlerFunc: handlerFunc,
	}
}

// ServerHTTP function acts as a wrapper to each request providing common handling functionality
// such as logging, error handling, request decorators
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// create a logger
	errLog := h.logger.With().
		Str("request_url", r.URL.String()).
		Str("request_id", middleware.GetRequestID(r)).
		Logger()

	response, err := h.handlerFunc(r, h.api)
	if err != nil {
		h.errorHandler(w, r, err, errLog)
		return
	}

	h.jsonResponse(w, http.StatusOK, response, errLog)
}

func (h *Handler) errorHandler(w http.ResponseWriter, r *http.Request, err error, errorLogger zerolog.Logger) {
	statusErr := models.ErrorToStatusError(err)
	if statusErr.Status() == http.StatusInternalServerError {
		errorLogger.Error().Err(err).Msg("internal error")
	} else {
		errorLogger.Debug().Err(err).Int("status", statusErr.Status()).Msg("request rejected")
	}

	h.jsonResponse(w, statusErr.Status(), models.ModelError{
		Code:      statusErr.Status(),
		Reason:    statusErr.Reason(),
		Message:   statusErr.UserMessage(),
		RequestID: middleware.GetRequestID(r),
	}, errorLogger)
}

// jsonResponse builds a JSON response and send it to the client
func (h *Handler) jsonResponse(w http.ResponseWriter, code int, response interface{}, errLogger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	encoded, err := json.Marshal(response)
	if err != nil {
		errLogger.Error().Err(err).Msg("failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)
	_, err = w.Write(encoded)
	if err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		errLogger.Error().Err(err).Msg("failed to write http response")
	}
}
