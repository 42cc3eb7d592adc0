package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/auditfeed-io/feedctl/internal/http"
	"github.com/auditfeed-io/feedctl/pkg/o365"
)

// SubscriptionsClient operates on the activity feed subscription endpoints.
// Each method issues exactly one HTTP call.
type SubscriptionsClient struct {
	httpClient *http.Client
	basePath   string
}

// NewSubscriptionsClient creates a subscriptions client for one tenant.
func NewSubscriptionsClient(httpClient *http.Client, tenantID string) *SubscriptionsClient {
	return &SubscriptionsClient{
		httpClient: httpClient,
		basePath:   "/api/v1.0/" + tenantID + "/activity/feed/subscriptions",
	}
}

// StartOptions carries the optional webhook registration for Start.
type StartOptions struct {
	Webhook *o365.Webhook `json:"webhook,omitempty"`
}

// ContentOptions narrows the content listing window. Zero values fall back
// to the API default of the last 24 hours.
type ContentOptions struct {
	StartTime string
	EndTime   string
}

// List returns all subscriptions for the tenant.
func (c *SubscriptionsClient) List(ctx context.Context) ([]o365.Subscription, error) {
	resp, err := c.httpClient.Get(ctx, c.basePath+"/list", nil)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	var subscriptions []o365.Subscription

	err = json.Unmarshal(resp.Body, &subscriptions)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription list: %w", err)
	}

	return subscriptions, nil
}

// Start enables collection for a content type and returns the resulting
// subscription. The request body is an empty JSON object unless a webhook
// registration is supplied.
func (c *SubscriptionsClient) Start(ctx context.Context, contentType string, opts *StartOptions) (*o365.Subscription, error) {
	if contentType == "" {
		return nil, o365.ErrContentTypeRequired
	}

	query := url.Values{}
	query.Set("contentType", contentType)

	var body interface{} = struct{}{}
	if opts != nil && opts.Webhook != nil {
		body = opts
	}

	resp, err := c.httpClient.PostWithQuery(ctx, c.basePath+"/start", query, body)
	if err != nil {
		return nil, fmt.Errorf("starting subscription: %w", err)
	}

	var subscription o365.Subscription

	err = json.Unmarshal(resp.Body, &subscription)
	if err != nil {
		return nil, fmt.Errorf("parsing start response: %w", err)
	}

	return &subscription, nil
}

// Stop disables collection for a content type. The API returns no body on
// success.
func (c *SubscriptionsClient) Stop(ctx context.Context, contentType string) error {
	if contentType == "" {
		return o365.ErrContentTypeRequired
	}

	query := url.Values{}
	query.Set("contentType", contentType)

	_, err := c.httpClient.PostWithQuery(ctx, c.basePath+"/stop", query, struct{}{})
	if err != nil {
		return fmt.Errorf("stopping subscription: %w", err)
	}

	return nil
}

// Content lists the available content blobs for a content type.
func (c *SubscriptionsClient) Content(ctx context.Context, contentType string, opts *ContentOptions) ([]o365.ContentBlob, error) {
	if contentType == "" {
		return nil, o365.ErrContentTypeRequired
	}

	query := url.Values{}
	query.Set("contentType", contentType)

	if opts != nil {
		if opts.StartTime != "" {
			query.Set("startTime", opts.StartTime)
		}

		if opts.EndTime != "" {
			query.Set("endTime", opts.EndTime)
		}
	}

	resp, err := c.httpClient.Get(ctx, c.basePath+"/content", query)
	if err != nil {
		return nil, fmt.Errorf("listing content: %w", err)
	}

	var blobs []o365.ContentBlob

	err = json.Unmarshal(resp.Body, &blobs)
	if err != nil {
		return nil, fmt.Errorf("parsing content list: %w", err)
	}

	return blobs, nil
}
