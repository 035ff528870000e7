// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

/*
HTTP delivery for the browser-facing authentication flows.

The web surface speaks classic form posts and redirects: successful actions
answer 302 and carry state in HttpOnly cookies, failures answer 422 with the
uniform validation envelope.

This layer is strictly responsible for transport concerns (status codes,
cookies, redirects).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
	"github.com/abcscribe/abcscribe/internal/platform/middleware"
	requestutil "github.com/abcscribe/abcscribe/internal/platform/request"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/validate"
)

// # Definitions & Constructors

// WebHandler implements the session-cookie authentication endpoints.
//
// # Scope
//
// Everything a browser needs for the account lifecycle: signup, login,
// logout, and the passwordless magic-link flow.
type WebHandler struct {
	authService *Service
	sessions    *SessionManager
	magicLinks  *MagicLinkService
}

// NewWebHandler constructs a new [WebHandler] with its service dependencies.
func NewWebHandler(service *Service, sessions *SessionManager, magicLinks *MagicLinkService) *WebHandler {
	return &WebHandler{
		authService: service,
		sessions:    sessions,
		magicLinks:  magicLinks,
	}
}

// Routes returns a [chi.Router] configured with the browser authentication routes.
//
// # Endpoints
//   - GET    /signup              : Describes the signup form.
//   - POST   /signup              : Creates an account and signs it in.
//   - GET    /login               : Describes the login form.
//   - POST   /login               : Authenticates and establishes a session.
//   - GET    /magic_links         : Describes the magic-link request form.
//   - DELETE /logout              : Tears down the session (POST accepted for forms).
//   - POST   /magic_links         : Emails a passwordless sign-in link.
//   - GET    /magic_links/{token} : Consumes a link and signs the user in.
func (handler *WebHandler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints. The GET routes serve form descriptors so that the
	// signed-out redirect targets resolve for non-browser clients too.
	router.Get("/signup", handler.describeForm("signup", FieldName, FieldEmail, FieldPassword))
	router.Post("/signup", handler.signup)
	router.Get("/login", handler.describeForm("login", FieldEmail, FieldPassword, FieldRememberMe))
	router.Post("/login", handler.login)
	router.Get("/magic_links", handler.describeForm("magic_link", FieldEmail))
	router.Post("/magic_links", handler.requestMagicLink)
	router.Get("/magic_links/{token}", handler.verifyMagicLink)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireWebUser)
		r.Delete("/logout", handler.logout)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Handlers

// describeForm answers a GET on a form route with the form's name and its
// expected fields. There is no server-side templating; clients render the
// forms themselves.
func (handler *WebHandler) describeForm(name string, fields ...string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, map[string]any{
			"form":   name,
			"fields": fields,
		})
	}
}

/*
signup handles the creation of a new browser account.

POST /signup

Description: Validates the form, persists the account, and immediately
establishes a session so the new user lands signed in.

Request:
  - Form: name, email, password

Response:
  - 302: Redirect to / with session cookie
  - 422: Validation failure or duplicate email
*/
func (handler *WebHandler) signup(writer http.ResponseWriter, request *http.Request) {
	name := request.FormValue(FieldName)
	email := request.FormValue(FieldEmail)
	password := request.FormValue(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		// Duplicate emails surface on the form as a field error.
		if appErr := apperr.As(err); appErr != nil && appErr.Code == "CONFLICT" {
			respond.Error(writer, request, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldEmail, Message: appErr.Message}))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	handler.establishSession(writer, request, user, false)
}

/*
login authenticates a browser user and establishes a session.

POST /login

Description: Verifies credentials and binds a brand-new session. The optional
remember_me flag additionally issues a long-lived remember cookie.

Request:
  - Form: email, password, remember_me ("1" to opt in)

Response:
  - 302: Redirect to / with session cookie (and remember cookie if requested)
  - 422: Generic invalid-credentials message
*/
func (handler *WebHandler) login(writer http.ResponseWriter, request *http.Request) {
	email := request.FormValue(FieldEmail)
	password := request.FormValue(FieldPassword)
	rememberMe := request.FormValue(FieldRememberMe) == "1"

	user, err := handler.authService.Authenticate(request.Context(), email, password)
	if err != nil {
		// The form answers 422 with one generic message so nothing about the
		// account's existence leaks.
		if apperr.IsAppError(err) {
			respond.Error(writer, request, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldEmail, Message: "Invalid email or password"}))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	handler.establishSession(writer, request, user, rememberMe)
}

/*
logout tears down the browser session.

DELETE /logout

Description: Destroys the server-side session, invalidates the remember
credential, and expires both cookies.

Response:
  - 302: Redirect to /login
*/
func (handler *WebHandler) logout(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID := cookieValue(request, constants.SessionCookieName)
	if err := handler.sessions.Logout(request.Context(), sessionID, principal.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	expireCookie(writer, constants.SessionCookieName)
	expireCookie(writer, constants.RememberCookieName)

	http.Redirect(writer, request, "/login", http.StatusFound)
}

/*
requestMagicLink emails a passwordless sign-in link.

POST /magic_links

Description: Known emails get a fresh single-use link (prior links are
destroyed); unknown emails are reported on the form.

Request:
  - Form: email

Response:
  - 302: Redirect to /login with the check-your-email notice
  - 422: No account found for that email
*/
func (handler *WebHandler) requestMagicLink(writer http.ResponseWriter, request *http.Request) {
	email := request.FormValue(FieldEmail)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.magicLinks.Request(request.Context(), email); err != nil {
		// Unknown emails surface on the form, mirroring the login form's 422.
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusNotFound {
			respond.Error(writer, request, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldEmail, Message: "No account found for that email"}))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	http.Redirect(writer, request, "/login", http.StatusFound)
}

/*
verifyMagicLink consumes a sign-in link.

GET /magic_links/{token}

Description: A valid token signs the user in with a fresh session; invalid or
expired tokens bounce back to the login page. The token is destroyed either way.

Response:
  - 302: Redirect to / with session cookie, or back to /login on failure
*/
func (handler *WebHandler) verifyMagicLink(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)

	user, err := handler.magicLinks.Verify(request.Context(), token)
	if err != nil {
		if apperr.IsAppError(err) {
			// Bounce to the login page; the browser flow never sees a 401.
			http.Redirect(writer, request, "/login", http.StatusFound)
			return
		}
		respond.Error(writer, request, err)
		return
	}

	handler.establishSession(writer, request, user, false)
}

// # Cookie Plumbing

// establishSession binds a fresh session (and optional remember credential)
// and redirects to the root page. Any session the browser presented is
// destroyed server-side as part of the regeneration.
func (handler *WebHandler) establishSession(writer http.ResponseWriter, request *http.Request, user *User, rememberMe bool) {
	priorSessionID := cookieValue(request, constants.SessionCookieName)

	sessionID, err := handler.sessions.Login(request.Context(), user, priorSessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setAuthCookie(writer, constants.SessionCookieName, sessionID, constants.SessionTTL)

	if rememberMe {
		rememberToken, err := handler.authService.Remember(request.Context(), user)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		setAuthCookie(writer, constants.RememberCookieName, rememberToken, constants.RememberTokenTTL)
	}

	http.Redirect(writer, request, "/", http.StatusFound)
}

// setAuthCookie writes an HttpOnly credential cookie.
func setAuthCookie(writer http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// expireCookie overwrites a cookie with an immediate expiry.
func expireCookie(writer http.ResponseWriter, name string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// cookieValue returns the named cookie's value or "".
func cookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
