// Package clients wraps outbound calls to the service's collaborators: the
// email-code service, the personality analyzer, and the chat relay. Every
// call carries a fixed timeout and is never retried; failures surface as
// apperr.Upstream values for the caller to treat as fatal or degraded.
package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/moodloop/journal-server/internal/apperr"
)

// Upstream is a bounded-timeout JSON POST client for one collaborator.
type Upstream struct {
	rc *resty.Client
}

func NewUpstream(baseURL string, timeout time.Duration) *Upstream {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Upstream{rc: rc}
}

// PostJSON posts body and decodes the 2xx response into out. A transport
// failure or non-2xx status becomes an Upstream error carrying the detail.
func (u *Upstream) PostJSON(ctx context.Context, path string, body, out any) error {
	req := u.rc.R().SetContext(ctx).SetBody(body)
	if out != nil {
		req = req.SetResult(out)
	}

	resp, err := req.Post(path)
	if err != nil {
		return apperr.Upstream("Service unavailable", err)
	}
	if resp.IsError() {
		return apperr.Upstream(
			"Service unavailable",
			fmt.Errorf("upstream %s%s returned %d: %s", u.rc.BaseURL, path, resp.StatusCode(), resp.String()),
		)
	}
	return nil
}

// PostJSONStatus is PostJSON for endpoints where a 4xx is a meaningful
// outcome (e.g. an invalid verification code) rather than a failure. It
// decodes the body on any status and returns the status code; only transport
// errors and 5xx responses become Upstream errors.
func (u *Upstream) PostJSONStatus(ctx context.Context, path string, body, out any) (int, error) {
	req := u.rc.R().SetContext(ctx).SetBody(body)
	if out != nil {
		req = req.SetResult(out).SetError(out)
	}

	resp, err := req.Post(path)
	if err != nil {
		return 0, apperr.Upstream("Service unavailable", err)
	}
	if resp.StatusCode() >= 500 {
		return resp.StatusCode(), apperr.Upstream(
			"Service unavailable",
			fmt.Errorf("upstream %s%s returned %d: %s", u.rc.BaseURL, path, resp.StatusCode(), resp.String()),
		)
	}
	return resp.StatusCode(), nil
}
