package setting

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	requestutil "github.com/abcscribe/abcscribe/internal/platform/request"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{settingID}", handler.get)
	router.Patch("/{settingID}", handler.update)
	router.Delete("/{settingID}", handler.delete)
}

type settingRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (input settingRequest) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name)
	return validator.Err()
}

// conflictToValidation surfaces duplicate-name conflicts as form errors.
func conflictToValidation(err error) error {
	if appErr := apperr.As(err); appErr != nil && appErr.Code == "CONFLICT" {
		return apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldName, Message: appErr.Message})
	}
	return err
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	settings, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, settings)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload settingRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.Create(request.Context(), userID, Input{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		respond.Error(writer, request, conflictToValidation(err))
		return
	}
	respond.Created(writer, setting)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.Get(request.Context(), userID, requestutil.ID(request, "settingID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, setting)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload settingRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	if err := payload.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.Update(request.Context(), userID, requestutil.ID(request, "settingID"), Input{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		respond.Error(writer, request, conflictToValidation(err))
		return
	}
	respond.OK(writer, setting)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID, requestutil.ID(request, "settingID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
