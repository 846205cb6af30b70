package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moodloop/journal-server/internal/apperr"
	"github.com/moodloop/journal-server/internal/auth"
	"github.com/moodloop/journal-server/internal/models"
	"github.com/moodloop/journal-server/internal/repositories"
)

// EmailSender is the email-code collaborator as the account lifecycle sees it.
type EmailSender interface {
	SendVerificationCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (bool, error)
	SendPasswordReset(ctx context.Context, email string) error
	VerifyPasswordReset(ctx context.Context, email, code string) (bool, error)
}

// Accounts orchestrates registration, verification, login, password reset,
// and OAuth upsert. It is the only component that mutates verification or
// password state, and the only one that talks to the email collaborator.
type Accounts struct {
	users  repositories.UserRepository
	email  EmailSender
	tokens *auth.TokenIssuer
	hasher auth.PasswordHasher
	log    zerolog.Logger
}

func NewAccounts(
	users repositories.UserRepository,
	email EmailSender,
	tokens *auth.TokenIssuer,
	hasher auth.PasswordHasher,
	log zerolog.Logger,
) *Accounts {
	return &Accounts{
		users:  users,
		email:  email,
		tokens: tokens,
		hasher: hasher,
		log:    log,
	}
}

// Register creates an unverified user and asks the collaborator to dispatch a
// verification code. The user row commits before the dispatch; if the
// dispatch fails the row is kept so resend-verification can recover.
func (a *Accounts) Register(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return apperr.Validation("Email & password are required")
	}

	if _, err := a.users.FindByEmail(ctx, email); err == nil {
		return apperr.Conflict("An account with this email already exists.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return apperr.Internal(err)
	}

	user := &models.User{
		Email:          email,
		PasswordDigest: a.hasher.Hash(password),
		IsVerified:     false,
	}
	if err := a.users.Create(ctx, user); err != nil {
		// Two registrations can pass the precheck concurrently; the loser's
		// insert trips the unique email index.
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperr.Conflict("An account with this email already exists.")
		}
		return apperr.Internal(err)
	}

	if err := a.email.SendVerificationCode(ctx, email); err != nil {
		a.log.Error().Err(err).Str("email", email).Msg("verification dispatch failed")
		return apperr.Upstream("Failed to send verification email. Please try again.", err)
	}
	return nil
}

// VerifyEmail delegates code correctness to the collaborator, marks the user
// verified, and logs them in.
func (a *Accounts) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	if email == "" || code == "" {
		return "", apperr.Validation("Email and verification code are required.")
	}

	ok, err := a.email.VerifyCode(ctx, email, code)
	if err != nil {
		return "", apperr.Upstream("Could not connect to verification service.", err)
	}
	if !ok {
		return "", apperr.Validation("Invalid verification code")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperr.NotFound("User not found after verification.")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}

	user.IsVerified = true
	if err := a.users.Save(ctx, user); err != nil {
		return "", apperr.Internal(err)
	}

	return a.tokens.Issue(user.ID, user.Email)
}

// ResendVerification re-triggers a verification dispatch for an unverified
// account.
func (a *Accounts) ResendVerification(ctx context.Context, email string) error {
	if email == "" {
		return apperr.Validation("Email is required.")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound("No account found with this email.")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if user.IsVerified {
		return apperr.Validation("This account is already verified.")
	}

	if err := a.email.SendVerificationCode(ctx, email); err != nil {
		return apperr.Upstream("Failed to send verification email. Please try again.", err)
	}
	return nil
}

// Login checks credentials first and verification second, so an unverified
// account with the right password is told to verify, not that the
// credentials were wrong.
func (a *Accounts) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperr.Auth("Invalid credentials")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return "", apperr.Internal(err)
	}

	if user.PasswordDigest == "" || !a.hasher.Verify(password, user.PasswordDigest) {
		return "", apperr.Auth("Invalid credentials")
	}
	if !user.IsVerified {
		return "", apperr.Forbidden("Please verify your email before logging in.")
	}

	return a.tokens.Issue(user.ID, user.Email)
}

// RequestPasswordReset triggers collaborator-side reset-code generation. The
// collaborator owns the codes; no local state changes.
func (a *Accounts) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return apperr.Validation("Email is required")
	}
	if err := a.email.SendPasswordReset(ctx, email); err != nil {
		return apperr.Upstream("Failed to send reset email", err)
	}
	return nil
}

// ResetPassword validates the code via the collaborator and overwrites the
// stored digest. Verification state is not required and not touched.
func (a *Accounts) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return apperr.Validation("Email, code, and new password required")
	}

	ok, err := a.email.VerifyPasswordReset(ctx, email, code)
	if err != nil {
		return apperr.Upstream("Reset service error", err)
	}
	if !ok {
		return apperr.Validation("Invalid reset code")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFound("No account found with this email.")
	}
	if err != nil {
		return apperr.Internal(err)
	}

	user.PasswordDigest = a.hasher.Hash(newPassword)
	if err := a.users.Save(ctx, user); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// CompleteOAuthLogin upserts a user from a federated identity's claims.
// Existing users get the provider pair attached and are marked verified, with
// profile fields filled only when previously empty; new users are created
// pre-verified with no password. A token is always issued on success.
func (a *Accounts) CompleteOAuthLogin(ctx context.Context, provider, providerID, email, name, avatar string) (string, error) {
	if email == "" {
		return "", apperr.Validation("Email not provided by " + provider)
	}

	user, err := a.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		user.OAuthProvider = provider
		user.OAuthID = providerID
		user.IsVerified = true
		if user.FullName == "" {
			user.FullName = name
		}
		if user.Avatar == "" {
			user.Avatar = avatar
		}
		if err := a.users.Save(ctx, user); err != nil {
			return "", apperr.Internal(err)
		}

	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{
			Email:         email,
			FullName:      name,
			Avatar:        avatar,
			IsVerified:    true,
			OAuthProvider: provider,
			OAuthID:       providerID,
		}
		if err := a.users.Create(ctx, user); err != nil {
			return "", apperr.Internal(err)
		}

	default:
		return "", apperr.Internal(err)
	}

	return a.tokens.Issue(user.ID, user.Email)
}

// GetProfile returns the user record for the authenticated identity.
func (a *Accounts) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := a.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

// ProfileUpdate carries the PUT /api/auth/me patch; nil fields are left
// untouched.
type ProfileUpdate struct {
	Avatar      *string   `json:"avatar"`
	FullName    *string   `json:"fullName"`
	Bio         *string   `json:"bio"`
	Location    *string   `json:"location"`
	Interests   *[]string `json:"interests"`
	DateOfBirth *string   `json:"dateOfBirth"`
}

func (p ProfileUpdate) empty() bool {
	return p.Avatar == nil && p.FullName == nil && p.Bio == nil &&
		p.Location == nil && p.Interests == nil && p.DateOfBirth == nil
}

// UpdateProfile applies a partial profile update and returns the stored user.
func (a *Accounts) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	if update.empty() {
		return nil, apperr.Validation("No valid fields to update")
	}

	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Location != nil {
		user.Location = *update.Location
	}
	if update.Interests != nil {
		user.Interests = *update.Interests
	}
	if update.DateOfBirth != nil {
		user.DateOfBirth = *update.DateOfBirth
	}

	if err := a.users.Save(ctx, user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}
