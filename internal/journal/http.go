// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package journal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/abcscribe/abcscribe/internal/platform/request"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/validate"
	"github.com/abcscribe/abcscribe/pkg/pagination"
)

// Handler implements the journal entry endpoints of the JSON API.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the journal entry routes on the given router.
//
// # Endpoints
//   - GET    /          : Newest-first page of entries.
//   - POST   /          : Creates an entry (tags by name, created on demand).
//   - GET    /{entryID} : Fetches one entry.
//   - PATCH  /{entryID} : Updates an entry and rewrites its tag set.
//   - DELETE /{entryID} : Deletes an entry.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{entryID}", handler.get)
	router.Patch("/{entryID}", handler.update)
	router.Delete("/{entryID}", handler.delete)
}

// # Payloads

type entryRequest struct {
	OccurredAt  string   `json:"occurred_at"`
	Antecedent  string   `json:"antecedent"`
	Behavior    string   `json:"behavior"`
	Consequence string   `json:"consequence"`
	Tags        []string `json:"tags"`
}

// parse validates the payload and converts the timestamp.
func (input entryRequest) parse() (EntryInput, error) {
	validator := &validate.Validator{}
	validator.Required(FieldOccurredAt, input.OccurredAt).
		Required(FieldAntecedent, input.Antecedent).
		MinLen(FieldAntecedent, input.Antecedent, NarrativeMinLen).
		MaxLen(FieldAntecedent, input.Antecedent, NarrativeMaxLen).
		Required(FieldBehavior, input.Behavior).
		MinLen(FieldBehavior, input.Behavior, NarrativeMinLen).
		MaxLen(FieldBehavior, input.Behavior, NarrativeMaxLen).
		Required(FieldConsequence, input.Consequence).
		MinLen(FieldConsequence, input.Consequence, NarrativeMinLen).
		MaxLen(FieldConsequence, input.Consequence, NarrativeMaxLen)

	for _, name := range input.Tags {
		validator.MaxLen(FieldTags, name, TagNameMaxLen)
	}

	var occurredAt time.Time
	if input.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.OccurredAt)
		if err != nil {
			validator.Custom(FieldOccurredAt, true, "must be a valid RFC 3339 timestamp")
		} else {
			occurredAt = parsed
			validator.NotFuture(FieldOccurredAt, &occurredAt, "cannot be in the future")
		}
	}

	if err := validator.Err(); err != nil {
		return EntryInput{}, err
	}

	return EntryInput{
		OccurredAt:  occurredAt,
		Antecedent:  input.Antecedent,
		Behavior:    input.Behavior,
		Consequence: input.Consequence,
		TagNames:    input.Tags,
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

	entries, total, err := handler.service.ListEntries(request.Context(), userID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, entries, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload entryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.parse()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.CreateEntry(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.GetEntry(request.Context(), userID, requestutil.ID(request, "entryID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload entryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	input, err := payload.parse()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.UpdateEntry(request.Context(), userID, requestutil.ID(request, "entryID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteEntry(request.Context(), userID, requestutil.ID(request, "entryID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
