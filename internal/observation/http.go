// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package observation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/abcscribe/abcscribe/internal/platform/request"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/validate"
	"github.com/abcscribe/abcscribe/pkg/pagination"
)

// Handler implements the nested observation endpoints of the JSON API.
//
// All routes hang off /api/v1/subjects/{subjectID}/observations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the observation routes on the given router.
//
// # Endpoints
//   - GET    /                : Newest-first page of the subject's observations.
//   - POST   /                : Records an observation.
//   - GET    /{observationID} : Fetches one observation.
//   - PATCH  /{observationID} : Updates an observation.
//   - DELETE /{observationID} : Deletes an observation.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{observationID}", handler.get)
	router.Patch("/{observationID}", handler.update)
	router.Delete("/{observationID}", handler.delete)
}

// # Payloads

type observationRequest struct {
	SettingID   *string `json:"setting_id"`
	ObservedAt  string  `json:"observed_at"`
	Antecedent  string  `json:"antecedent"`
	Behavior    string  `json:"behavior"`
	Consequence string  `json:"consequence"`
	Notes       string  `json:"notes"`
}

// parse validates the payload and converts the timestamp.
func (input observationRequest) parse() (Input, error) {
	validator := &validate.Validator{}
	validator.Required(FieldObservedAt, input.ObservedAt).
		Required(FieldAntecedent, input.Antecedent).
		Required(FieldBehavior, input.Behavior).
		Required(FieldConsequence, input.Consequence)

	var observedAt time.Time
	if input.ObservedAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.ObservedAt)
		if err != nil {
			validator.Custom(FieldObservedAt, true, "must be a valid RFC 3339 timestamp")
		} else {
			observedAt = parsed
			validator.NotFuture(FieldObservedAt, &observedAt, "cannot be in the future")
		}
	}

	if err := validator.Err(); err != nil {
		return Input{}, err
	}

	return Input{
		SettingID:   input.SettingID,
		ObservedAt:  observedAt,
		Antecedent:  input.Antecedent,
		Behavior:    input.Behavior,
		Consequence: input.Consequence,
		Notes:       input.Notes,
	}, nil
}

// # Handlers

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	subjectID := requestutil.ID(request, "subjectID")

	observations, total, err := handler.service.List(request.Context(), userID, subjectID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, observations, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload observationRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.parse()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	observation, err := handler.service.Create(request.Context(), userID, requestutil.ID(request, "subjectID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, observation)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	observation, err := handler.service.Get(request.Context(), userID,
		requestutil.ID(request, "subjectID"), requestutil.ID(request, "observationID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, observation)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload observationRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.parse()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	observation, err := handler.service.Update(request.Context(), userID,
		requestutil.ID(request, "subjectID"), requestutil.ID(request, "observationID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, observation)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID,
		requestutil.ID(request, "subjectID"), requestutil.ID(request, "observationID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
