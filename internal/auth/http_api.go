// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abcscribe/abcscribe/internal/platform/middleware"
	requestutil "github.com/abcscribe/abcscribe/internal/platform/request"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/validate"
)

// # API Handler

// APIHandler implements the bearer-token authentication endpoints of the JSON API.
type APIHandler struct {
	authService *Service
	tokens      *BearerTokenService
}

// NewAPIHandler constructs a new [APIHandler] with its service dependencies.
func NewAPIHandler(service *Service, tokens *BearerTokenService) *APIHandler {
	return &APIHandler{authService: service, tokens: tokens}
}

// Routes returns a [chi.Router] configured with the API authentication routes.
//
// # Endpoints
//   - POST   /login  : Exchanges email/password for a bearer token.
//   - DELETE /logout : Revokes the caller's live bearer token.
func (handler *APIHandler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	// Public endpoint
	router.Post("/login", handler.login)

	// Protected endpoint
	router.Group(func(r chi.Router) {
		r.Use(gate)
		r.Use(middleware.RequireAPIUser)
		r.Delete("/logout", handler.logout)
	})

	return router
}

// # Payloads

type apiLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResource is the JSON:API-flavored shape of an issued credential.
type tokenResource struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Attributes tokenAttributes `json:"attributes"`
}

type tokenAttributes struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// # Handlers

/*
login exchanges credentials for a bearer token.

POST /api/v1/auth/login

Description: Verifies email and password, then returns the account's live
bearer token, minting one when none exists. Repeated logins return the same
token until it is revoked or expires.

Request:
  - Body: apiLoginRequest (Email, Password)

Response:
  - 201: tokenResource with the live bearer token
  - 401: Invalid email or password
  - 422: Missing fields
*/
func (handler *APIHandler) login(writer http.ResponseWriter, request *http.Request) {
	var input apiLoginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Authenticate(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.tokens.IssueFor(request.Context(), user)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, tokenResource{
		Type: "token",
		ID:   user.ID,
		Attributes: tokenAttributes{
			Token: token,
			Email: user.Email,
		},
	})
}

/*
logout revokes the caller's live bearer token.

DELETE /api/v1/auth/logout

Description: Clears the stored credential; any outstanding copies of the
token stop resolving immediately, even before their JWT expiry.

Response:
  - 204: Token revoked
  - 401: Missing or invalid bearer token
*/
func (handler *APIHandler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.tokens.Invalidate(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
