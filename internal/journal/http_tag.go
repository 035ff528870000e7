// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package journal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	requestutil "github.com/abcscribe/abcscribe/internal/platform/request"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/validate"
)

// TagHandler implements the tag endpoints of the JSON API.
type TagHandler struct {
	service *Service
}

// NewTagHandler constructs a new [TagHandler].
func NewTagHandler(service *Service) *TagHandler {
	return &TagHandler{service: service}
}

// RegisterRoutes mounts the tag routes on the given router.
//
// # Endpoints
//   - GET    /         : Lists the user's tags alphabetically.
//   - POST   /         : Creates a tag.
//   - DELETE /{tagID}  : Deletes a tag and detaches it from every entry.
func (handler *TagHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{tagID}", handler.delete)
}

type tagRequest struct {
	Name string `json:"name"`
}

func (handler *TagHandler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tags, err := handler.service.ListTags(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, tags)
}

func (handler *TagHandler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload tagRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTagName, payload.Name).
		MaxLen(FieldTagName, payload.Name, TagNameMaxLen)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tag, err := handler.service.CreateTag(request.Context(), userID, payload.Name)
	if err != nil {
		// Duplicate names surface as a validation failure on the name field.
		if appErr := apperr.As(err); appErr != nil && appErr.Code == "CONFLICT" {
			respond.Error(writer, request, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldTagName, Message: appErr.Message}))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tag)
}

func (handler *TagHandler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteTag(request.Context(), userID, requestutil.ID(request, "tagID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
