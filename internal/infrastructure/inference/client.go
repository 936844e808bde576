package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"resty.dev/v3"

	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
)

// upstream issues one bounded call against a provider and classifies the outcome.
type upstream struct {
	kind    model.ProviderKind
	client  *resty.Client
	timeout time.Duration
}

// post sends body to path and returns the raw success body. The call is cancelled when
// timeout elapses, which also drops any response still in flight.
func (u *upstream) post(ctx context.Context, path string, body any, decorate func(*resty.Request)) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req := u.client.R().SetContext(callCtx).SetBody(body)
	if decorate != nil {
		decorate(req)
	}

	resp, err := req.Post(path)
	if err != nil {
		return nil, u.transportError(ctx, callCtx, err)
	}
	raw := resp.Bytes()
	if resp.IsError() {
		return nil, &domain.ProviderError{
			Provider: u.kind,
			Status:   resp.StatusCode(),
			Message:  upstreamErrorMessage(raw),
		}
	}
	return raw, nil
}

// get issues a lightweight GET, used for health probes.
func (u *upstream) get(ctx context.Context, path string, decorate func(*resty.Request)) error {
	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req := u.client.R().SetContext(callCtx)
	if decorate != nil {
		decorate(req)
	}
	resp, err := req.Get(path)
	if err != nil {
		return u.transportError(ctx, callCtx, err)
	}
	if resp.IsError() {
		return &domain.ProviderError{Provider: u.kind, Status: resp.StatusCode(), Message: upstreamErrorMessage(resp.Bytes())}
	}
	return nil
}

// transportError maps a failed round trip. Any deadline, ours or the caller's, is a timeout;
// only an explicit cancellation of the caller is passed through as is.
func (u *upstream) transportError(parent, call context.Context, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return fmt.Errorf("%s request cancelled: %w", u.kind, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(call.Err(), context.DeadlineExceeded) {
		return &domain.ProviderTimeoutError{Provider: u.kind, After: u.timeout}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.ProviderTimeoutError{Provider: u.kind, After: u.timeout}
	}
	return fmt.Errorf("%s request failed: %w", u.kind, err)
}

// decode unmarshals a provider envelope, mapping failures to ProviderParseError.
func (u *upstream) decode(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &domain.ProviderParseError{Provider: u.kind, Raw: truncate(string(raw), 4096), Err: err}
	}
	return nil
}

// finish turns the upstream text into a Completion, enforcing JSON for structured prompts.
// raw is the decoded envelope, kept on the error when it carries no text.
func (u *upstream) finish(p domain.Prompt, raw []byte, text string, usage *domain.Usage) (*domain.Completion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &domain.ProviderParseError{Provider: u.kind, Raw: truncate(string(raw), 4096), Err: errors.New("no content in response")}
	}
	out := &domain.Completion{Text: text, Usage: usage}
	if p.Structured {
		obj, err := domain.ExtractJSONObject(u.kind, text)
		if err != nil {
			return nil, err
		}
		out.JSON = obj
	}
	return out, nil
}

// upstreamErrorMessage pulls a message out of the common provider error envelopes.
func upstreamErrorMessage(raw []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		var nested struct {
			Message string `json:"message"`
		}
		if len(envelope.Error) > 0 {
			if json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
			var flat string
			if json.Unmarshal(envelope.Error, &flat) == nil && flat != "" {
				return flat
			}
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return truncate(strings.TrimSpace(string(raw)), 512)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
