package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// profileUpdateFields is the allowed field set for PATCH /users/me.
var profileUpdateFields = map[string]bool{
	"name":     true,
	"email":    true,
	"age":      true,
	"password": true,
}

// allowedAvatarTypes are the accepted content types for avatar uploads,
// as sniffed from the payload itself.
var allowedAvatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// UserHandler handles user-related API requests: registration, login,
// session management, profile, and avatars.
type UserHandler struct {
	userService    service.UserManager
	sessionManager auth.SessionService
	maxAvatarBytes int64
	validator      *validator.Validate
	logger         *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(
	userService service.UserManager,
	sessionManager auth.SessionService,
	maxAvatarBytes int64,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userService:    userService,
		sessionManager: sessionManager,
		maxAvatarBytes: maxAvatarBytes,
		validator:      validator.New(),
		logger:         logger.With("component", "user_handler"),
	}
}

// Register handles POST /users. On success the new user is logged in
// immediately: the response carries the public view plus a session token.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	user, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Age, req.Password)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	token, err := h.sessionManager.IssueToken(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue token after registration",
			"error", err,
			"user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "failed to create session")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Login handles POST /users/login. Credential failures are uniform: the
// response never distinguishes an unknown email from a wrong password.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	user, err := h.userService.FindByCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	token, err := h.sessionManager.IssueToken(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue token on login",
			"error", err,
			"user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "failed to create session")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  NewUserResponse(user),
		Token: token,
	})
}

// Logout handles POST /users/logout. Only the token the request
// authenticated with is revoked; sessions on other devices stay live.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	token, tokenOK := shared.AuthenticatedToken(r.Context())
	if !ok || !tokenOK {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	if err := h.sessionManager.Revoke(r.Context(), user, token); err != nil {
		RespondWithError(w, r, http.StatusInternalServerError, "failed to log out")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, nil)
}

// LogoutAll handles POST /users/logoutAll, clearing the entire token set.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	if err := h.sessionManager.RevokeAll(r.Context(), user); err != nil {
		RespondWithError(w, r, http.StatusInternalServerError, "failed to log out")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, nil)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UpdateMe handles PATCH /users/me. Any field outside
// {name, email, age, password} rejects the whole update before anything
// is applied.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	fields, err := DecodePatch(r, profileUpdateFields)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	var patch service.ProfileUpdate
	if _, present := fields["name"]; present {
		var name string
		if err := UnmarshalField(fields, "name", &name); err != nil {
			RespondWithMappedError(w, r, err)
			return
		}
		patch.Name = &name
	}
	if _, present := fields["email"]; present {
		var email string
		if err := UnmarshalField(fields, "email", &email); err != nil {
			RespondWithMappedError(w, r, err)
			return
		}
		patch.Email = &email
	}
	if _, present := fields["age"]; present {
		var age int
		if err := UnmarshalField(fields, "age", &age); err != nil {
			RespondWithMappedError(w, r, err)
			return
		}
		patch.Age = &age
	}
	if _, present := fields["password"]; present {
		var password string
		if err := UnmarshalField(fields, "password", &password); err != nil {
			RespondWithMappedError(w, r, err)
			return
		}
		patch.Password = &password
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user, patch)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewUserResponse(updated))
}

// DeleteMe handles DELETE /users/me. The user's tasks are removed first,
// then the user; the response echoes the public view of the deleted user.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), user); err != nil {
		RespondWithError(w, r, http.StatusInternalServerError, "failed to delete user")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// GetAvatar handles GET /users/{id}/avatar. Unknown users and users
// without an avatar are both a plain 404.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	avatar, err := h.userService.GetAvatar(r.Context(), id)
	if err != nil {
		if store.IsNotFoundError(err) {
			RespondWithError(w, r, http.StatusNotFound, "not found")
			return
		}
		RespondWithError(w, r, http.StatusInternalServerError, "failed to load avatar")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(avatar))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar); err != nil {
		h.logger.Error("failed to write avatar response", "error", err)
	}
}

// UploadAvatar handles POST /users/me/avatar. The raw bytes are stored
// as-is (no resizing); payloads over the configured cap or that are not
// PNG/JPEG are rejected.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxAvatarBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			RespondWithError(w, r, http.StatusBadRequest, "avatar too large")
			return
		}
		RespondWithError(w, r, http.StatusBadRequest, "failed to read avatar")
		return
	}
	if len(data) == 0 {
		RespondWithError(w, r, http.StatusBadRequest, "avatar cannot be empty")
		return
	}

	if contentType := http.DetectContentType(data); !allowedAvatarTypes[contentType] {
		RespondWithError(w, r, http.StatusBadRequest, "please upload an image")
		return
	}

	if err := h.userService.UpdateAvatar(r.Context(), user, data); err != nil {
		RespondWithError(w, r, http.StatusInternalServerError, "failed to store avatar")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, nil)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	if err := h.userService.UpdateAvatar(r.Context(), user, nil); err != nil {
		RespondWithError(w, r, http.StatusInternalServerError, "failed to delete avatar")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, nil)
}
