package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Belphemur/ChannelSubs/internal/apperrors"
	"github.com/Belphemur/ChannelSubs/internal/metrics"
)

// apiError is the error payload the platform returns instead of the expected body.
type apiError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// endpointURL joins path segments onto the API base URL and attaches query.
func (c *client) endpointURL(query url.Values, segments ...string) (string, error) {
	u, err := url.JoinPath(c.baseURL, segments...)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if len(query) == 0 {
		return u, nil
	}
	return u + "?" + query.Encode(), nil
}

// open performs a GET and classifies failures. On success the caller owns the
// response body.
//
// Transport errors, 429 and 5xx responses are *apperrors.ErrNetwork, 404 is
// *apperrors.ErrNotFound and any other non-2xx status is *apperrors.ErrServerResponse.
func (c *client) open(ctx context.Context, endpoint, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &apperrors.ErrNetwork{URL: target, Err: err}
	}
	metrics.APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NewNotFoundError(endpoint, target)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &apperrors.ErrNetwork{URL: target, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	serverErr := &apperrors.ErrServerResponse{URL: target, StatusCode: resp.StatusCode}
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil {
		var payload apiError
		if json.Unmarshal(body, &payload) == nil {
			serverErr.Code = payload.ErrorCode
			serverErr.Message = payload.Message
		}
	}
	return nil, serverErr
}

// fetch returns the full body of a successful GET together with its Content-Type.
func (c *client) fetch(ctx context.Context, endpoint, target string) ([]byte, string, error) {
	resp, err := c.open(ctx, endpoint, target)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		return nil, "", &apperrors.ErrNetwork{URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// getJSON fetches target and decodes it into out. An error payload in a 2xx
// response is a terminal server error; a body that does not decode is
// treated as a truncated transfer and is retryable.
func (c *client) getJSON(ctx context.Context, endpoint, target string, out any) error {
	body, _, err := c.fetch(ctx, endpoint, target)
	if err != nil {
		return err
	}

	var payload apiError
	if json.Unmarshal(body, &payload) == nil && payload.ErrorCode != "" {
		return &apperrors.ErrServerResponse{
			URL:        target,
			StatusCode: http.StatusOK,
			Code:       payload.ErrorCode,
			Message:    payload.Message,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &apperrors.ErrNetwork{URL: target, Err: fmt.Errorf("decode %s response: %w", endpoint, err)}
	}
	return nil
}
