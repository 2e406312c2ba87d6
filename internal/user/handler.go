package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"account-service/internal/httputil"
	"account-service/internal/identity"
	"account-service/internal/logging"
	"account-service/internal/validation"
)

// maxUploadSize bounds in-memory multipart parsing for photo uploads
const maxUploadSize = 10 << 20 // 10 MB

// Handler contains HTTP handlers for the protected profile endpoints.
// All of them run behind auth.Middleware, which guarantees a verified
// identity in the request context.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UpdateNameRequest represents the name update request body
type UpdateNameRequest struct {
	Name string `json:"name"`
}

// Profile returns the authenticated user's profile
// @Summary      Get profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Profile
// @Failure      401 {object} httputil.ErrorResponse "Missing or malformed token"
// @Failure      403 {object} httputil.ErrorResponse "Expired or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "User record missing"
// @Router       /api/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := identity.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "access token is missing", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, logger, err, "failed to load profile")
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// UpdatePhoto replaces the authenticated user's profile photo
// @Summary      Update profile photo
// @Tags         profile
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        photo formData file true "Photo file"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorResponse "No file uploaded"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/update-photo [post]
func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := identity.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "access token is missing", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		logger.Warn("invalid photo upload body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "photo file is required", httputil.CodeFileRequired, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		logger.Warn("photo file missing from upload")
		httputil.RespondErrorWithCode(w, "photo file is required", httputil.CodeFileRequired, http.StatusBadRequest)
		return
	}
	defer file.Close()

	profile, err := h.service.UpdatePhoto(r.Context(), userID, file, header.Filename)
	if err != nil {
		h.respondServiceError(w, logger, err, "failed to update photo")
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// UpdateName replaces the authenticated user's display name
// @Summary      Update display name
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateNameRequest true "New name"
// @Success      200 {object} Profile
// @Failure      400 {object} httputil.ErrorsResponse "Validation errors"
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/update-name [post]
func (h *Handler) UpdateName(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := identity.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "access token is missing", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid name update body", "error", err.Error())
		httputil.RespondErrors(w, []string{"Invalid request body"}, http.StatusBadRequest)
		return
	}

	if msgs := validation.Name(req.Name); len(msgs) > 0 {
		logger.Warn("name update failed: validation errors", "errors", msgs)
		httputil.RespondErrors(w, msgs, http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		h.respondServiceError(w, logger, err, "failed to update name")
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

// DeletePhoto clears the authenticated user's profile photo
// @Summary      Delete profile photo
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Profile
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/delete-photo [delete]
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := identity.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "access token is missing", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	profile, err := h.service.DeletePhoto(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, logger, err, "failed to delete photo")
		return
	}

	httputil.RespondJSON(w, profile, http.StatusOK)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, logger *logging.Logger, err error, msg string) {
	if errors.Is(err, ErrNotFound) {
		logger.Warn(msg + ": user not found")
		httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
		return
	}
	logger.Error(msg, "error", err.Error())
	httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
}
