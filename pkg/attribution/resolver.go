// Package attribution resolves first-touch attribution for CRM deals: it walks
// deal -> person -> primary email -> marketing contact -> tracking history,
// classifies the earliest page visit and writes the URL back onto the deal.
package attribution

import (
	"context"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/activecampaign"
	apperrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/pipedrive"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// CRMClient is the read side of the CRM plus the single write-back call.
type CRMClient interface {
	GetDeal(ctx context.Context, dealID string) (*pipedrive.Deal, error)
	GetPerson(ctx context.Context, personID string) (*pipedrive.Person, error)
	UpdateDealField(ctx context.Context, dealID string, fieldKey string, value string) error
}

// MarketingClient is the marketing platform's contact and tracking surface.
type MarketingClient interface {
	LookupContactByEmail(ctx context.Context, email string) (*activecampaign.Contact, error)
	ListTrackingLogs(ctx context.Context, contactID string, limit int) ([]activecampaign.TrackingLog, error)
}

// Result is the resolved attribution for one deal. It is derived, never
// stored: it is written onto the deal's custom field and returned.
type Result struct {
	URL     string  `json:"url"`
	Channel Channel `json:"channel"`
	Group   *string `json:"group"`
}

// Resolver orchestrates the attribution pipeline. Each step is a hard
// dependency on the previous one succeeding; there is nothing to roll back on
// failure because only the final step writes.
type Resolver struct {
	crm       CRMClient
	marketing MarketingClient
	fieldKey  string
	logLimit  int
	logger    ectologger.Logger
}

// NewResolver creates a Resolver. fieldKey is the deal custom-field key that
// receives the first-touch URL; logLimit bounds the tracking-history page.
func NewResolver(crm CRMClient, marketing MarketingClient, fieldKey string, logLimit int, logger ectologger.Logger) *Resolver {
	return &Resolver{
		crm:       crm,
		marketing: marketing,
		fieldKey:  fieldKey,
		logLimit:  logLimit,
		logger:    logger,
	}
}

// ResolveAndAttribute resolves the first-touch URL for a deal, writes it onto
// the deal's custom field and returns the classification.
func (r *Resolver) ResolveAndAttribute(ctx context.Context, dealID string) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "attribution.Resolver.ResolveAndAttribute")
	defer span.End()

	start := time.Now()
	result, err := r.resolve(ctx, dealID)
	metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ResolutionsTotal.WithLabelValues("success").Inc()
	metrics.ChannelsTotal.WithLabelValues(string(result.Channel)).Inc()
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, dealID string) (*Result, error) {
	log := r.logger.WithContext(ctx).WithFields(map[string]interface{}{"deal_id": dealID})

	deal, err := r.crm.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.PersonID.IsZero() {
		return nil, apperrors.NewLinkage("deal %s has no person linked", dealID)
	}

	person, err := r.crm.GetPerson(ctx, deal.PersonID.ID)
	if err != nil {
		return nil, err
	}
	email, ok := person.PrimaryEmail()
	if !ok {
		return nil, apperrors.NewLinkage("person %s linked to deal %s has no primary email", deal.PersonID.ID, dealID)
	}

	contact, err := r.marketing.LookupContactByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	logs, err := r.marketing.ListTrackingLogs(ctx, contact.ID, r.logLimit)
	if err != nil {
		return nil, err
	}
	if len(logs) == 0 {
		return nil, apperrors.NewNotFound("contact %s has no tracking history", contact.ID)
	}

	first, ok := firstTouch(logs)
	if !ok {
		return nil, apperrors.NewNotFound("contact %s has no page-visit events in tracking history", contact.ID)
	}

	classification := Classify(first.Value)

	// Write-back failure surfaces to the caller; the read chain has no side
	// effects to compensate.
	if err := r.crm.UpdateDealField(ctx, dealID, r.fieldKey, first.Value); err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"url":     first.Value,
		"channel": string(classification.Channel),
	}).Info("Resolved first-touch attribution")

	return &Result{
		URL:     first.Value,
		Channel: classification.Channel,
		Group:   classification.Group,
	}, nil
}

// firstTouch selects the minimum-timestamp page-visit event. The vendor's own
// ordering parameter is not trusted, so ascending order is enforced here
// regardless of input order.
func firstTouch(logs []activecampaign.TrackingLog) (activecampaign.TrackingLog, bool) {
	visits := make([]activecampaign.TrackingLog, 0, len(logs))
	for _, l := range logs {
		if l.IsPageVisit() {
			visits = append(visits, l)
		}
	}
	if len(visits) == 0 {
		return activecampaign.TrackingLog{}, false
	}

	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].Tstamp.Before(visits[j].Tstamp.Time)
	})

	return visits[0], true
}
