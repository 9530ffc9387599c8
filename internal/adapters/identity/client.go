// Package identity contains IdentityGate adapters: an HTTP client for the
// user service and an in-memory directory.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/example/reclam/internal/ports/secondary"
	"github.com/example/reclam/internal/sentinel"
)

// DefaultTimeout bounds a single call to the user service.
const DefaultTimeout = 5 * time.Second

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Client implements secondary.IdentityGate against the user service REST API:
//
//	GET {base}/api/users/{id}/exists  -> true | false
//	GET {base}/api/users/{id}         -> {"id", "nom" | "name", "email"}
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

// NewClient creates a client for the user service at baseURL.
// A zero timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("reclam/identity"),
	}
}

// Exists reports whether the user service knows userID.
func (c *Client) Exists(ctx context.Context, userID string) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "identity.Exists", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	status, body, err := c.get(ctx, "/api/users/"+url.PathEscape(userID)+"/exists")
	if err != nil {
		return false, c.fail(span, err)
	}
	if status != http.StatusOK {
		return false, c.fail(span, fmt.Errorf("user service answered %d for existence of %s: %w", status, userID, sentinel.ErrUpstreamUnavailable))
	}

	var exists bool
	if err := json.Unmarshal(bytes.TrimSpace(body), &exists); err != nil {
		return false, c.fail(span, fmt.Errorf("malformed existence answer %q: %w", truncate(body), sentinel.ErrUpstreamUnavailable))
	}
	span.SetAttributes(attribute.Bool("user.exists", exists))
	return exists, nil
}

// GetUser fetches the user's profile. A 404 is reported as sentinel.ErrNotFound.
func (c *Client) GetUser(ctx context.Context, userID string) (*secondary.UserProfile, error) {
	ctx, span := c.tracer.Start(ctx, "identity.GetUser", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	status, body, err := c.get(ctx, "/api/users/"+url.PathEscape(userID))
	if err != nil {
		return nil, c.fail(span, err)
	}
	switch {
	case status == http.StatusNotFound:
		return nil, c.fail(span, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound))
	case status != http.StatusOK:
		return nil, c.fail(span, fmt.Errorf("user service answered %d for profile of %s: %w", status, userID, sentinel.ErrUpstreamUnavailable))
	}

	var dto userDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, c.fail(span, fmt.Errorf("malformed profile answer: %v: %w", err, sentinel.ErrUpstreamUnavailable))
	}

	profile := &secondary.UserProfile{ID: rawID(dto.ID), Name: dto.Name, Email: dto.Email}
	if profile.Name == "" {
		profile.Name = dto.Nom
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	return profile, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build identity request: %v: %w", err, sentinel.ErrUpstreamUnavailable)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("user service unreachable: %v: %w", err, sentinel.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read user service answer: %v: %w", err, sentinel.ErrUpstreamUnavailable)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) fail(span trace.Span, err error) error {
	if !errors.Is(err, sentinel.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// userDTO is a user as the identity service and the users file spell it.
type userDTO struct {
	ID    json.RawMessage `json:"id"`
	Nom   string          `json:"nom"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
}

// rawID accepts both numeric and string ids.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(bytes.TrimSpace(raw))
}

func truncate(b []byte) string {
	const n = 64
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// Ensure Client implements the interface
var _ secondary.IdentityGate = (*Client)(nil)
