// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (Success or Error) across the entire application
// follows a strict, predictable JSON envelope structure:
//
//   - Success:    {"data": ...}
//   - Lists:      {"data": [...], "meta": {...}}
//   - Errors:     {"errors": [{"status", "title", "detail"}]}
//   - Validation: {"errors": {"field": "message"}}
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/ctxutil"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Data interface{} `json:"data"`
}

// ListEnvelope is the JSON envelope for list responses with metadata.
type ListEnvelope struct {
	Data interface{} `json:"data"`
	Meta interface{} `json:"meta"`
}

// ErrorObject is one entry of the "errors" array for non-validation failures.
type ErrorObject struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// errorEnvelope wraps the errors array.
type errorEnvelope struct {
	Errors []ErrorObject `json:"errors"`
}

// validationEnvelope maps field names to their first failure message.
type validationEnvelope struct {
	Errors map[string]string `json:"errors"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// List writes a 200 OK response with list data and a metadata block.
func List(writer http.ResponseWriter, data interface{}, meta interface{}) {
	JSON(writer, http.StatusOK, ListEnvelope{Data: data, Meta: meta})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
//
// Validation failures produce the {"errors": {field: message}} shape; every
// other failure produces the {"errors": [{status, title, detail}]} shape.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	if appError.Code == "VALIDATION_ERROR" && len(appError.Details) > 0 {
		fieldErrors := make(map[string]string, len(appError.Details))
		for _, detail := range appError.Details {
			// First message per field wins; later rules never overwrite it.
			if _, seen := fieldErrors[detail.Field]; !seen {
				fieldErrors[detail.Field] = detail.Message
			}
		}
		JSON(writer, appError.HTTPStatus, validationEnvelope{Errors: fieldErrors})
		return
	}

	JSON(writer, appError.HTTPStatus, errorEnvelope{
		Errors: []ErrorObject{{
			Status: strconv.Itoa(appError.HTTPStatus),
			Title:  http.StatusText(appError.HTTPStatus),
			Detail: appError.Message,
		}},
	})
}
