package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/matchcast/internal/platform/imageloader"
	"github.com/riskibarqy/matchcast/internal/platform/resilience"
	"github.com/riskibarqy/matchcast/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "matchcast"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
	// Message replaces err.Error() as the top-level message when set.
	Message string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.RecordError(err)
		if mapped.HTTPStatus >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, mapped.Reason)
		}
	}
	message := mapped.Message
	if message == "" {
		message = err.Error()
	}
	if mapped.HTTPStatus == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "120")
	}
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: err.Error(),
				},
			},
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

// mapError checks usecase sentinels first, then falls back to the fetch kind
// of an adapter error that reached the handler unwrapped.
func mapError(err error) mappedError {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, imageloader.ErrEmptyURL):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrRateLimited):
		return rateLimited()
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return unavailable()
	case errors.Is(err, imageloader.ErrLoadFailed):
		return badGateway()
	}

	switch resilience.KindOf(err) {
	case resilience.KindNotFound:
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
			Message:    resilience.KindNotFound.UserMessage(),
		}
	case resilience.KindRateLimited:
		return rateLimited()
	case resilience.KindTransient, resilience.KindCircuitOpen, resilience.KindMalformed:
		return unavailable()
	case resilience.KindClient:
		return badGateway()
	case resilience.KindCanceled:
		return mappedError{
			HTTPStatus: 499,
			Reason:     "canceled",
			Status:     "CANCELLED",
			Message:    resilience.KindCanceled.UserMessage(),
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}

func rateLimited() mappedError {
	return mappedError{
		HTTPStatus: http.StatusTooManyRequests,
		Reason:     "rateLimited",
		Status:     "RESOURCE_EXHAUSTED",
		Message:    resilience.KindRateLimited.UserMessage(),
	}
}

func unavailable() mappedError {
	return mappedError{
		HTTPStatus: http.StatusServiceUnavailable,
		Reason:     "dependencyUnavailable",
		Status:     "UNAVAILABLE",
		Message:    resilience.KindTransient.UserMessage(),
	}
}

func badGateway() mappedError {
	return mappedError{
		HTTPStatus: http.StatusBadGateway,
		Reason:     "badGateway",
		Status:     "UNAVAILABLE",
		Message:    resilience.KindClient.UserMessage(),
	}
}
