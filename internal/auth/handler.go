package auth

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"account-service/internal/httputil"
	"account-service/internal/logging"
	"account-service/internal/storage"
	"account-service/internal/user"
)

// maxUploadSize bounds in-memory multipart parsing for registration photos
const maxUploadSize = 10 << 20 // 10 MB

// Handler contains HTTP handlers for the authentication endpoints
type Handler struct {
	service *Service
	photos  *storage.LocalStore
}

func NewHandler(service *Service, photos *storage.LocalStore) *Handler {
	return &Handler{
		service: service,
		photos:  photos,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest represents the sign-in request body
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse represents a plain success acknowledgment
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SignInResponse carries the bearer token issued on successful sign-in
type SignInResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new user account. Accepts JSON or multipart form data with an optional photo file.
// @Tags         auth
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        request body RegisterRequest true "Registration fields"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorsResponse "Validation errors or duplicate email"
// @Failure      500 {object} httputil.ErrorsResponse
// @Router       /api/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	req, photoFile, photoHeader, ok := h.decodeRegister(w, r)
	if !ok {
		return
	}
	if photoFile != nil {
		defer photoFile.Close()
	}

	// Store the upload before touching the database; on any registration
	// failure the stored file is removed again
	var photo *string
	if photoFile != nil {
		filename, err := h.photos.Save(photoFile, photoHeader.Filename)
		if err != nil {
			logger.Error("failed to store registration photo", "error", err.Error())
			httputil.RespondErrors(w, []string{"Internal server error"}, http.StatusInternalServerError)
			return
		}
		photo = &filename
	}

	_, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, photo)
	if err != nil {
		if photo != nil {
			if remErr := h.photos.Remove(*photo); remErr != nil {
				logger.Warn("failed to remove photo after failed registration", "error", remErr.Error())
			}
		}

		var vErr *ValidationError
		if errors.As(err, &vErr) {
			logger.Warn("registration failed: validation errors", "errors", vErr.Messages)
			httputil.RespondErrors(w, vErr.Messages, http.StatusBadRequest)
			return
		}
		if errors.Is(err, user.ErrDuplicateEmail) {
			logger.Warn("registration failed: email already registered")
			httputil.RespondErrors(w, []string{"Email already registered"}, http.StatusBadRequest)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondErrors(w, []string{"Internal server error"}, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, MessageResponse{
		Success: true,
		Message: "User registered successfully",
	}, http.StatusOK)
}

// SignIn handles user sign-in
// @Summary      Sign in
// @Description  Authenticate with email and password and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Credentials"
// @Success      200 {object} SignInResponse
// @Failure      400 {object} httputil.ErrorsResponse "Validation errors"
// @Failure      401 {object} httputil.ErrorsResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorsResponse
// @Router       /api/signin [post]
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid sign-in request body", "error", err.Error())
		httputil.RespondErrors(w, []string{"Invalid request body"}, http.StatusBadRequest)
		return
	}

	token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			logger.Warn("sign-in failed: validation errors", "errors", vErr.Messages)
			httputil.RespondErrors(w, vErr.Messages, http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrInvalidCredentials) {
			// Same response for unknown email and wrong password
			logger.Warn("sign-in failed: invalid credentials")
			httputil.RespondErrors(w, []string{"Invalid email or password"}, http.StatusUnauthorized)
			return
		}
		logger.Error("sign-in failed: internal error", "error", err.Error())
		httputil.RespondErrors(w, []string{"Internal server error"}, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, SignInResponse{
		Success: true,
		Message: "User signed in successfully",
		Token:   token,
	}, http.StatusOK)
}

// Logout acknowledges sign-out
// @Summary      Log out
// @Description  Stateless acknowledgment; tokens expire on their own
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /api/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless and carry their own expiry; there is nothing to
	// revoke server-side
	httputil.RespondJSON(w, MessageResponse{
		Success: true,
		Message: "Logged out successfully",
	}, http.StatusOK)
}

// decodeRegister reads registration fields from either a JSON body or a
// multipart form carrying an optional photo file. Returns ok=false after
// responding when the body cannot be read.
func (h *Handler) decodeRegister(w http.ResponseWriter, r *http.Request) (RegisterRequest, multipart.File, *multipart.FileHeader, bool) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			logger.Warn("invalid multipart registration body", "error", err.Error())
			httputil.RespondErrors(w, []string{"Invalid request body"}, http.StatusBadRequest)
			return req, nil, nil, false
		}

		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")

		file, header, err := r.FormFile("photo")
		if err == nil {
			return req, file, header, true
		}
		if !errors.Is(err, http.ErrMissingFile) {
			logger.Warn("unreadable registration photo", "error", err.Error())
			httputil.RespondErrors(w, []string{"Invalid request body"}, http.StatusBadRequest)
			return req, nil, nil, false
		}
		return req, nil, nil, true
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrors(w, []string{"Invalid request body"}, http.StatusBadRequest)
		return req, nil, nil, false
	}

	return req, nil, nil, true
}
