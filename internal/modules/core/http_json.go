package core

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func RequestBody[TRequest any](r *http.Request) (TRequest, error) {
	var request TRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	return request, err
}

type ResponseOption func(http.ResponseWriter, *http.Request)

func WithHeader(header, value string) ResponseOption {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add(header, value)
	}
}

func WriteOK(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusOK, body)
}

func WriteCreated(w http.ResponseWriter, r *http.Request, location string, body interface{}) {
	WriteResponse(w, r, http.StatusCreated, body, WithHeader("Location", location))
}

func WriteBadRequest(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusBadRequest, body)
}

func WriteUnauthorized(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusUnauthorized, body)
}

func WriteNotFound(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusNotFound, body)
}

func WriteInternalServerError(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusInternalServerError, body)
}

func WriteBadGateway(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusBadGateway, body)
}

func WriteCommandError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	if commandErr, ok := err.(CommandError); ok {
		statusCode = commandErr.StatusCode
	}
	WriteResponse(w, r, statusCode, err)
}

func WriteResponse(
	w http.ResponseWriter,
	r *http.Request,
	statusCode int,
	body interface{},
	opts ...ResponseOption,
) {
	for _, opt := range opts {
		opt(w, r)
	}

	if body != nil {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(statusCode)
	writeBodyIfPresent(r.Context(), w, body)
}

func writeBodyIfPresent(ctx context.Context, w http.ResponseWriter, body interface{}) {
	if body == nil {
		return
	}

	// Errors need special handling - a bare error marshals into an
	// empty object.
	if bodyErr, ok := body.(error); ok {
		if commandErr, ok := bodyErr.(CommandError); ok {
			body = commandErr
		} else {
			body = map[string]string{"error": bodyErr.Error()}
		}
	}

	responseBytes, err := json.Marshal(body)
	if err != nil {
		LogError(ctx, "failed to serialize response body", zap.Error(err))
		return
	}

	if _, err := w.Write(responseBytes); err != nil {
		LogError(ctx, "failed to write response", zap.Error(err))
	}
}
