package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"errandgo/internal/auth"
	"errandgo/internal/delivery/http/middleware"
	"errandgo/internal/domain/profile"
	"errandgo/internal/pkg/response"
	"errandgo/internal/usecase/login"
	"errandgo/internal/usecase/registration"
)

// AuthHandler serves the per-role signup and login entry points plus
// logout. Each route binds a fixed role; the flows themselves are shared.
type AuthHandler struct {
	registration *registration.Service
	login        *login.Service
	auth         *auth.Service
}

func NewAuthHandler(reg *registration.Service, loginSvc *login.Service, authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{registration: reg, login: loginSvc, auth: authSvc}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Post(profile.RoleSender.SignupRoute(), h.signup(profile.RoleSender))
	app.Post(profile.RoleRunner.SignupRoute(), h.signup(profile.RoleRunner))
	app.Post(profile.RoleSender.LoginRoute(), h.loginAs(profile.RoleSender))
	app.Post(profile.RoleRunner.LoginRoute(), h.loginAs(profile.RoleRunner))
	app.Post("/logout", h.logout)
}

func (h *AuthHandler) signup(role profile.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		agree, _ := strconv.ParseBool(c.FormValue("agree_to_terms"))

		in := registration.Input{
			FullName:           c.FormValue("full_name"),
			Email:              c.FormValue("email"),
			PhoneNumber:        c.FormValue("phone_number"),
			Password:           c.FormValue("password"),
			RelationshipStatus: c.FormValue("relationship_status"),
			Address:            c.FormValue("address"),
			Area:               c.FormValue("area"),
			Bio:                c.FormValue("bio"),
			AgreeToTerms:       agree,
		}

		var err error
		if in.NINFront, err = formFile(c, "nin_front"); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Could not read the NIN front upload", nil, err)
		}
		if in.NINBack, err = formFile(c, "nin_back"); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Could not read the NIN back upload", nil, err)
		}
		if in.ProfilePicture, err = formFile(c, "profile_picture"); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Could not read the profile picture upload", nil, err)
		}

		res, err := h.registration.Register(c.Context(), role, in)
		if err != nil {
			return mapRegistrationError(err)
		}

		data := map[string]any{
			"identity_id":       res.IdentityID,
			"redirect_to":       res.RedirectTo,
			"redirect_after_ms": res.RedirectAfter.Milliseconds(),
		}
		return response.Success(c, fiber.StatusCreated, "Account created successfully. Please check your email for verification.", data)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) loginAs(role profile.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		var req loginRequest
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}

		res, err := h.login.Login(c.Context(), login.Input{
			Email:         req.Email,
			Password:      req.Password,
			RequestedRole: role,
		})
		if err != nil {
			return mapLoginError(err, role)
		}

		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    res.Session.Token,
			Expires:  res.Session.ExpiresAt,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Path:     "/",
		})

		data := map[string]any{
			"access_token": res.Session.Token,
			"expires_at":   res.Session.ExpiresAt,
			"redirect_to":  res.RedirectTo,
		}
		return response.Success(c, fiber.StatusOK, "Successfully logged in as "+string(role)+".", data)
	}
}

func (h *AuthHandler) logout(c fiber.Ctx) error {
	tok := middleware.SessionToken(c)
	if tok != "" {
		if err := h.auth.SignOut(c.Context(), tok); err != nil {
			return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})

	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"redirect_to": profile.HomeRoute,
	})
}

// formFile reads an optional multipart file into memory. A missing part
// yields a nil file, not an error; the flow decides which slots are
// required.
func formFile(c fiber.Ctx, name string) (*registration.File, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		return nil, nil
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (*registration.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &registration.File{Name: fh.Filename, Data: data}, nil
}

func mapRegistrationError(err error) error {
	var upErr *registration.UploadError

	switch {
	case errors.Is(err, registration.ErrTermsNotAccepted):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please agree to the Terms & Conditions", nil, err)
	case errors.Is(err, registration.ErrMissingDocuments):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please upload both front and back of your NIN card", nil, err)
	case errors.Is(err, registration.ErrMissingRequiredField):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please fill in all required fields", nil, err)
	case errors.Is(err, auth.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "An account with this email already exists", nil, err)
	case errors.Is(err, auth.ErrInvalidEmail):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please enter a valid email address", nil, err)
	case errors.Is(err, auth.ErrWeakPassword):
		return middleware.NewAppError(fiber.StatusBadRequest, "Password must be at least 6 characters long", nil, err)
	case errors.As(err, &upErr):
		return middleware.NewAppError(fiber.StatusBadGateway, "Failed to upload your "+upErr.Slot+" document. Please try again.", nil, err)
	case errors.Is(err, profile.ErrAlreadyExists):
		return middleware.NewAppError(fiber.StatusConflict, "A profile already exists for this account", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to create account", nil, err)
	}
}

func mapLoginError(err error, requested profile.Role) error {
	switch {
	case errors.Is(err, login.ErrAccessDenied):
		msg := "This login is for " + string(requested) + "s only. Please use the " + string(requested.Other()) + " login."
		return middleware.NewAppError(fiber.StatusForbidden, msg, map[string]any{
			"redirect_to": requested.Other().LoginRoute(),
		}, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to login", nil, err)
	}
}
