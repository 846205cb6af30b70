package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodloop/journal-server/internal/apperr"
	"github.com/moodloop/journal-server/internal/api/middleware"
	"github.com/moodloop/journal-server/internal/models"
	"github.com/moodloop/journal-server/internal/repositories"
	"github.com/moodloop/journal-server/internal/services"
	"github.com/moodloop/journal-server/internal/utils"
)

const avatarUploadExpiry = 15 * time.Minute

type AuthHandler struct {
	accounts *services.Accounts
	avatars  *repositories.AvatarStore // nil when uploads are not configured
	log      zerolog.Logger
}

func NewAuthHandler(accounts *services.Accounts, avatars *repositories.AvatarStore, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, avatars: avatars, log: log}
}

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Register a new account
// @Description Creates an unverified account and dispatches a verification code by email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentialsInput true "Email and password"
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	if err := h.accounts.Register(r.Context(), input.Email, input.Password); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Account created. Please check your email to verify your account.",
	})
}

// VerifyEmail godoc
// @Summary Verify an email address
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	token, err := h.accounts.VerifyEmail(r.Context(), input.Email, input.Code)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Token   string `json:"token"`
	}{true, "Email verified successfully!", token})
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	if err := h.accounts.ResendVerification(r.Context(), input.Email); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Verification email sent. Please check your inbox.",
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body credentialsInput true "Email and password"
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentialsInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	token, err := h.accounts.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}{true, token})
}

func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), input.Email); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Reset code sent to email",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), input.Email, input.Code, input.Password); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Password updated successfully",
	})
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

// GetMe returns the authenticated user's profile.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	user, err := h.accounts.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

// UpdateMe applies a partial profile update.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	var update services.ProfileUpdate
	if err := utils.DecodeJSON(r, &update); err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), identity.UserID, update)
	if err != nil {
		utils.ErrorResponse(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, userResponse{Success: true, Message: "Profile updated", User: user})
}

// PresignAvatar hands out a presigned PUT URL for a new avatar object. The
// client uploads directly to the bucket and then PUTs the public URL into the
// avatar profile field.
func (h *AuthHandler) PresignAvatar(w http.ResponseWriter, r *http.Request) {
	if h.avatars == nil {
		utils.ErrorResponse(w, apperr.NotFound("Avatar uploads are not configured"))
		return
	}

	identity, ok := middleware.Identity(r)
	if !ok {
		utils.ErrorResponse(w, apperr.Auth("Unauthorized"))
		return
	}

	key, uploadURL, err := h.avatars.PresignUpload(r.Context(), identity.UserID, avatarUploadExpiry)
	if err != nil {
		h.log.Error().Err(err).Msg("avatar presign failed")
		utils.ErrorResponse(w, apperr.Internal(err))
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Data: map[string]string{
			"key":       key,
			"uploadUrl": uploadURL,
			"publicUrl": h.avatars.PublicURL(key),
		},
	})
}
