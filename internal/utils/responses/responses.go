package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"xhsops/internal/utils/errs"
	"xhsops/internal/utils/logger"
)

type BadResponse struct {
	Status int    `json:"status"`
	Text   string `json:"text"`
}

func DoBadResponseAndLog(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := BadResponse{
		Status: statusCode,
		Text:   message,
	}

	jsonResponse, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if _, err = w.Write(jsonResponse); err != nil {
		logger.Error("failed to write response",
			zap.String("function", "DoBadResponseAndLog"),
			zap.Error(err),
		)
		return
	}

	logger.Warn("Bad response",
		zap.Int("status", statusCode),
		zap.String("message", message),
	)
}

func DoJSONResponse(w http.ResponseWriter, responseData interface{}, successStatusCode int) {
	body, err := json.Marshal(responseData)
	if err != nil {
		DoBadResponseAndLog(w, http.StatusInternalServerError, "internal error")
		logger.Error("failed to marshal response",
			zap.String("function", "DoJSONResponse"),
			zap.Error(err),
		)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(successStatusCode)

	if _, err := w.Write(body); err != nil {
		logger.Error("failed to write response",
			zap.String("function", "DoJSONResponse"),
			zap.Error(err),
		)
	}
}

func ResponseErrorAndLog(w http.ResponseWriter, err error, funcName string) {
	switch {
	case errors.Is(err, errs.ErrTaskNotFound):
		DoBadResponseAndLog(w, http.StatusNotFound, "task not found")
		logger.Warn(funcName,
			zap.String("error", err.Error()),
		)

	case errors.Is(err, errs.ErrMaxTasksReached):
		DoBadResponseAndLog(w, http.StatusTooManyRequests, "too many active tasks")
		logger.Warn(funcName,
			zap.String("error", err.Error()),
		)

	case errors.Is(err, errs.ErrTaskNotActive):
		DoBadResponseAndLog(w, http.StatusConflict, "task is not processing")
		logger.Warn(funcName,
			zap.String("error", err.Error()),
		)

	case errors.Is(err, errs.ErrTaskNotTerminal):
		DoBadResponseAndLog(w, http.StatusConflict, "task has not finished")
		logger.Warn(funcName,
			zap.String("error", err.Error()),
		)

	case errors.Is(err, errs.ErrInvalidTaskType),
		errors.Is(err, errs.ErrNoSourceFiles),
		errors.Is(err, errs.ErrInvalidSource),
		errors.Is(err, errs.ErrInvalidFilter),
		errors.Is(err, errs.ErrInvalidLabel),
		errors.Is(err, errs.ErrInvalidScrape):
		DoBadResponseAndLog(w, http.StatusBadRequest, err.Error())
		logger.Warn(funcName,
			zap.String("error", err.Error()),
		)

	case errors.Is(err, errs.ErrResultFetch):
		DoBadResponseAndLog(w, http.StatusNotFound, "result file not found")
		logger.Warn(funcName,
			zap.String("error", err.Error()),
		)

	case errors.Is(err, errs.ErrResultList),
		errors.Is(err, errs.ErrResultDelete),
		errors.Is(err, errs.ErrList):
		DoBadResponseAndLog(w, http.StatusBadGateway, "backend unavailable")
		logger.Error(funcName,
			zap.String("error", err.Error()),
		)

	default:
		DoBadResponseAndLog(w, http.StatusInternalServerError, "internal error")
		logger.Error(funcName,
			zap.String("error", err.Error()),
		)
	}
}
