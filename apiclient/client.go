// Package apiclient talks to the remote REST API that holds users and notifications.
// Every authenticated call takes the bearer token explicitly, so the client itself holds no credentials.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"maragu.dev/errors"
)

type Client struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

type NewClientOptions struct {
	BaseURL string
	// HTTPClient to use instead of the default one, mostly for tests.
	HTTPClient *http.Client
	Log        *slog.Logger
	// Timeout for each request, default 10 seconds.
	Timeout time.Duration
}

func NewClient(opts NewClientOptions) *Client {
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		client:  opts.HTTPClient,
		log:     opts.Log,
	}
}

// Error from the API, for responses with a non-2xx status code.
// Message is derived from the response body with [MessageFromBody] and may be empty.
type Error struct {
	StatusCode int
	Message    string
}

// Error satisfies [error].
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error, got http status code %v", e.StatusCode)
	}
	return "api error: " + e.Message
}

var _ error = (*Error)(nil)

// UserMessage from err, suitable for showing to a dashboard user.
// It's the API's own message if there is one, and fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if stderrors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsUnauthorized is true if the API rejected the bearer token.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// do a request to the API at path, sending body as JSON if it's not nil.
// If token is not empty, it's sent as a bearer token.
// The response body is returned on 2xx status codes, and an [*Error] otherwise.
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		bodyAsBytes, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "error marshalling request body to json")
		}
		reqBody = bytes.NewReader(bodyAsBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error making request")
	}
	defer func() {
		_ = res.Body.Close()
	}()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.log.Info("Got error from API", "method", method, "path", path, "status code", res.StatusCode)
		return nil, &Error{StatusCode: res.StatusCode, Message: MessageFromBody(resBody)}
	}

	return resBody, nil
}

// errorBody is what the API sends with error responses.
// Both fields may be a string or a list of strings.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// MessageFromBody of an API error response.
// The "message" field is preferred over the "error" field, and lists of strings are joined with newlines.
// Returns an empty string if neither field has a usable value.
func MessageFromBody(body []byte) string {
	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		return ""
	}

	for _, field := range []json.RawMessage{b.Message, b.Error} {
		if m := messageFromField(field); m != "" {
			return m
		}
	}

	return ""
}

func messageFromField(field json.RawMessage) string {
	if len(field) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(field, &s); err == nil {
		return s
	}

	var ss []string
	if err := json.Unmarshal(field, &ss); err == nil {
		return strings.Join(ss, "\n")
	}

	return ""
}

// decodeList from either a bare JSON array or an object with the array in a "data" field.
func decodeList[T any](body []byte) ([]T, error) {
	var list []T
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling list response body")
	}
	return wrapped.Data, nil
}
