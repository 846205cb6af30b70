package clients

import (
	"context"
	"net/http"
	"time"
)

const emailTimeout = 10 * time.Second

// EmailClient talks to the email-code collaborator, which owns generation,
// delivery, and validation of verification and reset codes.
type EmailClient struct {
	up *Upstream
}

func NewEmailClient(baseURL string) *EmailClient {
	return &EmailClient{up: NewUpstream(baseURL, emailTimeout)}
}

type emailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code,omitempty"`
}

type emailResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendVerificationCode asks the collaborator to dispatch a verification code.
func (c *EmailClient) SendVerificationCode(ctx context.Context, email string) error {
	return c.up.PostJSON(ctx, "/send-verification-code", emailRequest{Email: email}, nil)
}

// VerifyCode checks a verification code. A rejected code is (false, nil); the
// error is non-nil only when the collaborator itself failed.
func (c *EmailClient) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	var result emailResult
	status, err := c.up.PostJSONStatus(ctx, "/verify-code", emailRequest{Email: email, Code: code}, &result)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK && result.Success, nil
}

// SendPasswordReset asks the collaborator to dispatch a reset code.
func (c *EmailClient) SendPasswordReset(ctx context.Context, email string) error {
	return c.up.PostJSON(ctx, "/send-password-reset", emailRequest{Email: email}, nil)
}

// VerifyPasswordReset checks a reset code; semantics match VerifyCode.
func (c *EmailClient) VerifyPasswordReset(ctx context.Context, email, code string) (bool, error) {
	var result emailResult
	status, err := c.up.PostJSONStatus(ctx, "/verify-password-reset", emailRequest{Email: email, Code: code}, &result)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK && result.Success, nil
}
