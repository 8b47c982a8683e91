// Package activecampaign is a thin client for the ActiveCampaign v3 REST API,
// covering contact lookup and tracking-log history. Auth is the account API key
// injected as the Api-Token header.
package activecampaign

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Gobusters/ectologger"

	apperrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/httpclient"
)

// Client calls the ActiveCampaign REST API for one account.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	logger  ectologger.Logger
}

// NewClient creates an ActiveCampaign client for the given account API URL
// (e.g. https://acme.api-us1.com).
func NewClient(apiURL string, apiKey string, http *httpclient.Client, logger ectologger.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(apiURL, "/") + "/api/3",
		apiKey:  apiKey,
		logger:  logger,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Api-Token": c.apiKey}
}

// LookupContactByEmail resolves an email to a contact with an exact-match
// query. An empty result set is a not-found error; no contact is ever created
// here. When the vendor returns more than one contact for the email the first
// one wins.
func (c *Client) LookupContactByEmail(ctx context.Context, email string) (*Contact, error) {
	endpoint := c.baseURL + "/contacts?email=" + url.QueryEscape(email)

	resp, err := c.http.Get(ctx, endpoint, c.headers())
	if err != nil {
		return nil, apperrors.NewUpstream("activecampaign: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, apperrors.NewUpstream("activecampaign: failed to look up contact by email: %s", resp.VendorMessage())
	}

	var body contactsResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, apperrors.NewUpstream("activecampaign: malformed contacts response: %v", err)
	}

	if len(body.Contacts) == 0 {
		return nil, apperrors.NewNotFound("no contact found for email %s", email)
	}
	if len(body.Contacts) > 1 {
		c.logger.WithContext(ctx).Warnf("Email %s matched %d contacts, using the first", email, len(body.Contacts))
	}

	return &body.Contacts[0], nil
}

// ListTrackingLogs fetches one bounded page of the contact's tracking history.
// The ascending-order parameter is advisory only; the vendor does not reliably
// honor it, so callers must re-sort.
func (c *Client) ListTrackingLogs(ctx context.Context, contactID string, limit int) ([]TrackingLog, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("orders[tstamp]", "ASC")
	endpoint := fmt.Sprintf("%s/contacts/%s/trackingLogs?%s", c.baseURL, url.PathEscape(contactID), query.Encode())

	resp, err := c.http.Get(ctx, endpoint, c.headers())
	if err != nil {
		return nil, apperrors.NewUpstream("activecampaign: %v", err)
	}
	if !resp.IsSuccess() {
		return nil, apperrors.NewUpstream("activecampaign: failed to fetch tracking logs for contact %s: %s", contactID, resp.VendorMessage())
	}

	var body trackingLogsResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, apperrors.NewUpstream("activecampaign: malformed tracking logs response: %v", err)
	}

	return body.TrackingLogs, nil
}
