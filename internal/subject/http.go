// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package subject

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	requestutil "github.com/abcscribe/abcscribe/internal/platform/request"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/validate"
	"github.com/abcscribe/abcscribe/pkg/pointer"
	"github.com/abcscribe/abcscribe/pkg/query"
)

// dateLayout is the wire format for date_of_birth values in request bodies.
const dateLayout = "2006-01-02"

// Handler implements the subject endpoints of the JSON API.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the subject routes on the given router.
//
// # Endpoints
//   - GET    /            : Filtered search with counts.
//   - POST   /            : Creates a subject.
//   - GET    /{subjectID} : Fetches one subject.
//   - PATCH  /{subjectID} : Updates a subject.
//   - DELETE /{subjectID} : Deletes a subject (observations cascade).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{subjectID}", handler.get)
	router.Patch("/{subjectID}", handler.update)
	router.Delete("/{subjectID}", handler.delete)
}

// # Payloads

type subjectRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Notes       string `json:"notes"`
}

// parse validates the payload and converts the date field.
func (input subjectRequest) parse() (Input, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name)

	var dateOfBirth *time.Time
	if input.DateOfBirth != "" {
		parsed, err := time.Parse(dateLayout, input.DateOfBirth)
		if err != nil {
			validator.Custom(FieldDateOfBirth, true, "must be a valid date (YYYY-MM-DD)")
		} else {
			dateOfBirth = pointer.To(parsed)
			validator.NotFuture(FieldDateOfBirth, dateOfBirth, "cannot be in the future")
		}
	}

	if err := validator.Err(); err != nil {
		return Input{}, err
	}

	return Input{
		Name:        input.Name,
		DateOfBirth: dateOfBirth,
		Notes:       input.Notes,
	}, nil
}

// searchMeta is the counters block of the list response.
type searchMeta struct {
	TotalCount    int `json:"total_count"`
	FilteredCount int `json:"filtered_count"`
}

// # Handlers

/*
list runs the subject search with the query-string filters.

GET /api/v1/subjects?query=&start_date=&end_date=&min_observations=&sort_by=&sort_direction=

Description: All filters are optional. Unparseable dates and counts drop the
corresponding filter rather than failing the request. Absent sort defaults to
name ascending.

Response:
  - 200: data: subjects with observation counts; meta: total and filtered counts
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := request.URL.Query()

	filter := Filter{
		Query:           params.Get("query"),
		StartDate:       query.OptionalDate(params.Get("start_date")),
		EndDate:         query.OptionalDate(params.Get("end_date")),
		MinObservations: query.OptionalInt(params.Get("min_observations")),
		SortBy:          params.Get("sort_by"),
		SortDirection:   params.Get("sort_direction"),
	}

	// The HTTP surface defaults to an alphabetical listing.
	if filter.SortBy == "" {
		filter.SortBy = SortByName
		filter.SortDirection = SortAsc
	}

	result, err := handler.service.Search(request.Context(), userID, filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, result.Subjects, searchMeta{
		TotalCount:    result.TotalCount,
		FilteredCount: result.FilteredCount,
	})
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload subjectRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.parse()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subject, err := handler.service.Create(request.Context(), userID, input)
	if err != nil {
		// Duplicate names within a user surface as a validation failure.
		if appErr := apperr.As(err); appErr != nil && appErr.Code == "CONFLICT" {
			respond.Error(writer, request, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldName, Message: appErr.Message}))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, subject)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subject, err := handler.service.Get(request.Context(), userID, requestutil.ID(request, "subjectID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, subject)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload subjectRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.parse()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subject, err := handler.service.Update(request.Context(), userID, requestutil.ID(request, "subjectID"), input)
	if err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.Code == "CONFLICT" {
			respond.Error(writer, request, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldName, Message: appErr.Message}))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, subject)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID, requestutil.ID(request, "subjectID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
