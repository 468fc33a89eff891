// Package producer is the client for the upstream producer API: endpoint
// registration, secret lookup, and the endpoint listing used for resync.
// The producer is a black box; non-success responses are surfaced to the
// caller with the upstream body included, never swallowed.
package producer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"webhook-consumer/internal/common/errors"
	"webhook-consumer/internal/common/httpclient"
)

// Client is the producer API surface consumed by the subscription manager
type Client interface {
	Subscribe(ctx context.Context, req SubscribeRequest) (*SubscriptionResult, error)
	GetSecret(ctx context.Context, endpointID string) (*SecretResult, error)
	Unsubscribe(ctx context.Context, endpointID string) error
	GetEndpoint(ctx context.Context, endpointID string) (*Endpoint, error)
	ListEndpoints(ctx context.Context) (*EndpointsResponse, error)
}

// HTTPClient talks to the producer REST API
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a producer client against the given base URL
func NewHTTPClient(baseURL string, opts ...httpclient.ClientOption) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  httpclient.New(opts...),
	}
}

func (c *HTTPClient) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscriptionResult, error) {
	var result SubscriptionResult
	if err := c.do(ctx, http.MethodPost, "/producer/subscribe", req, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, errors.UpstreamError("producer rejected subscription", nil).
			WithContext("message", result.Message)
	}
	return &result, nil
}

func (c *HTTPClient) GetSecret(ctx context.Context, endpointID string) (*SecretResult, error) {
	path := "/producer/secret?endpointId=" + url.QueryEscape(endpointID)
	var result SecretResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	if !result.Success || result.Secret == "" {
		return nil, errors.UpstreamError("producer returned no secret", nil).
			WithContext("endpoint_id", endpointID).
			WithContext("message", result.Message)
	}
	return &result, nil
}

func (c *HTTPClient) Unsubscribe(ctx context.Context, endpointID string) error {
	return c.do(ctx, http.MethodDelete, "/producer/unsubscribe/"+url.PathEscape(endpointID), nil, nil)
}

func (c *HTTPClient) GetEndpoint(ctx context.Context, endpointID string) (*Endpoint, error) {
	var endpoint Endpoint
	if err := c.do(ctx, http.MethodGet, "/producer/endpoint/"+url.PathEscape(endpointID), nil, &endpoint); err != nil {
		return nil, err
	}
	if endpoint.URL == "" {
		return nil, errors.UpstreamError("producer returned endpoint without url", nil).
			WithContext("endpoint_id", endpointID)
	}
	return &endpoint, nil
}

func (c *HTTPClient) ListEndpoints(ctx context.Context) (*EndpointsResponse, error) {
	var result EndpointsResponse
	if err := c.do(ctx, http.MethodGet, "/producer/endpoints", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do issues a request and decodes the JSON response into out when non-nil.
// Any transport fault or non-2xx status becomes an upstream error carrying
// the response body.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.InternalError("failed to encode producer request", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.InternalError("failed to build producer request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.UpstreamError("producer API unreachable", err).
			WithContext("path", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.UpstreamError("failed to read producer response", err).
			WithContext("path", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.UpstreamError(
			fmt.Sprintf("producer returned status %d", resp.StatusCode), nil).
			WithContext("path", path).
			WithContext("body", string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.UpstreamError("failed to decode producer response", err).
				WithContext("path", path)
		}
	}

	return nil
}
