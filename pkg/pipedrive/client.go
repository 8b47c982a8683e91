// Package pipedrive is a thin client for the Pipedrive v1 REST API, covering
// the deal, person and note endpoints this service needs. Auth is the account
// API token injected as the api_token query-string parameter.
package pipedrive

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Gobusters/ectologger"

	apperrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/httpclient"
)

// Client calls the Pipedrive REST API for one company account.
type Client struct {
	http     *httpclient.Client
	baseURL  string
	apiToken string
	logger   ectologger.Logger
}

// NewClient creates a Pipedrive client for the given company subdomain.
func NewClient(companyDomain string, apiToken string, http *httpclient.Client, logger ectologger.Logger) *Client {
	return &Client{
		http:     http,
		baseURL:  fmt.Sprintf("https://%s.pipedrive.com/api/v1", companyDomain),
		apiToken: apiToken,
		logger:   logger,
	}
}

// endpoint builds a full URL with the auth token and optional extra query params.
func (c *Client) endpoint(path string, params url.Values) string {
	query := url.Values{}
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("api_token", c.apiToken)
	return c.baseURL + path + "?" + query.Encode()
}

// GetDeal fetches a deal by its identifier.
func (c *Client) GetDeal(ctx context.Context, dealID string) (*Deal, error) {
	resp, err := c.http.Get(ctx, c.endpoint("/deals/"+url.PathEscape(dealID), nil), nil)
	if err != nil {
		return nil, apperrors.NewUpstream("pipedrive: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, apperrors.NewUpstream("pipedrive: failed to fetch deal %s: %s", dealID, resp.VendorMessage())
	}

	var body envelope[Deal]
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, apperrors.NewUpstream("pipedrive: malformed deal response: %v", err)
	}
	return &body.Data, nil
}

// GetPerson fetches a person by its identifier.
func (c *Client) GetPerson(ctx context.Context, personID string) (*Person, error) {
	resp, err := c.http.Get(ctx, c.endpoint("/persons/"+url.PathEscape(personID), nil), nil)
	if err != nil {
		return nil, apperrors.NewUpstream("pipedrive: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, apperrors.NewUpstream("pipedrive: failed to fetch person %s: %s", personID, resp.VendorMessage())
	}

	var body envelope[Person]
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, apperrors.NewUpstream("pipedrive: malformed person response: %v", err)
	}
	return &body.Data, nil
}

// UpdateDealField writes a single custom-field value onto a deal.
func (c *Client) UpdateDealField(ctx context.Context, dealID string, fieldKey string, value string) error {
	payload := map[string]string{fieldKey: value}

	resp, err := c.http.PutJSON(ctx, c.endpoint("/deals/"+url.PathEscape(dealID), nil), nil, payload)
	if err != nil {
		return apperrors.NewUpstream("pipedrive: %v", err)
	}
	if !resp.IsSuccess() {
		return apperrors.NewUpstream("pipedrive: failed to update deal %s: %s", dealID, resp.VendorMessage())
	}

	c.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"deal_id":   dealID,
		"field_key": fieldKey,
	}).Debug("Updated deal custom field")

	return nil
}

// CreateNote attaches a note to a deal and returns the created note's ID.
func (c *Client) CreateNote(ctx context.Context, dealID int64, content string) (int64, error) {
	payload := map[string]any{
		"content": content,
		"deal_id": dealID,
	}

	resp, err := c.http.PostJSON(ctx, c.endpoint("/notes", nil), nil, payload)
	if err != nil {
		return 0, apperrors.NewUpstream("pipedrive: %v", err)
	}
	if !resp.IsSuccess() {
		return 0, apperrors.NewUpstream("pipedrive: failed to create note on deal %d: %s", dealID, resp.VendorMessage())
	}

	var body envelope[Note]
	if err := resp.DecodeJSON(&body); err != nil {
		return 0, apperrors.NewUpstream("pipedrive: malformed note response: %v", err)
	}
	return body.Data.ID, nil
}
