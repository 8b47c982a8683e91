package attribution

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/activecampaign"
	apperrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/pipedrive"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeCRM struct {
	deal      *pipedrive.Deal
	dealErr   error
	person    *pipedrive.Person
	personErr error

	updatedDealID string
	updatedField  string
	updatedValue  string
	updateErr     error
}

func (f *fakeCRM) GetDeal(ctx context.Context, dealID string) (*pipedrive.Deal, error) {
	if f.dealErr != nil {
		return nil, f.dealErr
	}
	return f.deal, nil
}

func (f *fakeCRM) GetPerson(ctx context.Context, personID string) (*pipedrive.Person, error) {
	if f.personErr != nil {
		return nil, f.personErr
	}
	return f.person, nil
}

func (f *fakeCRM) UpdateDealField(ctx context.Context, dealID string, fieldKey string, value string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedDealID = dealID
	f.updatedField = fieldKey
	f.updatedValue = value
	return nil
}

type fakeMarketing struct {
	contact    *activecampaign.Contact
	contactErr error
	logs       []activecampaign.TrackingLog
	logsErr    error
	gotLimit   int
}

func (f *fakeMarketing) LookupContactByEmail(ctx context.Context, email string) (*activecampaign.Contact, error) {
	if f.contactErr != nil {
		return nil, f.contactErr
	}
	return f.contact, nil
}

func (f *fakeMarketing) ListTrackingLogs(ctx context.Context, contactID string, limit int) ([]activecampaign.TrackingLog, error) {
	f.gotLimit = limit
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return f.logs, nil
}

func ts(sec int64) activecampaign.Timestamp {
	return activecampaign.Timestamp{Time: time.Unix(sec, 0).UTC()}
}

func linkedCRM() *fakeCRM {
	return &fakeCRM{
		deal: &pipedrive.Deal{ID: 10, PersonID: pipedrive.PersonRef{ID: "20"}},
		person: &pipedrive.Person{
			ID: 20,
			Email: []pipedrive.Email{
				{Value: "old@b.com", Primary: false},
				{Value: "a@b.com", Primary: true},
			},
		},
	}
}

func TestResolveAndAttributeHappyPath(t *testing.T) {
	crm := linkedCRM()
	marketing := &fakeMarketing{
		contact: &activecampaign.Contact{ID: "30", Email: "a@b.com"},
		logs: []activecampaign.TrackingLog{
			{Tstamp: ts(2), Value: "u2"},
			{Tstamp: ts(1), Value: "u1"},
			{Tstamp: ts(3), Value: ""},
		},
	}

	resolver := NewResolver(crm, marketing, "field_abc", 100, testLogger())
	result, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.NoError(t, err)
	assert.Equal(t, "u1", result.URL)
	assert.Equal(t, ChannelOther, result.Channel)

	// Write-back targets the configured custom field on the triggering deal
	assert.Equal(t, "10", crm.updatedDealID)
	assert.Equal(t, "field_abc", crm.updatedField)
	assert.Equal(t, "u1", crm.updatedValue)
	assert.Equal(t, 100, marketing.gotLimit)
}

func TestResolvePicksMinimumTimestampRegardlessOfOrder(t *testing.T) {
	crm := linkedCRM()
	marketing := &fakeMarketing{
		contact: &activecampaign.Contact{ID: "30"},
		logs: []activecampaign.TrackingLog{
			{Tstamp: ts(50), Value: "late"},
			{Tstamp: ts(5), Value: ""}, // earliest overall but not a page visit
			{Tstamp: ts(30), Value: "middle"},
			{Tstamp: ts(10), Value: "earliest-visit"},
		},
	}

	resolver := NewResolver(crm, marketing, "field_abc", 100, testLogger())
	result, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.NoError(t, err)
	assert.Equal(t, "earliest-visit", result.URL)
}

func TestResolveClassifiesFirstTouchURL(t *testing.T) {
	crm := linkedCRM()
	marketing := &fakeMarketing{
		contact: &activecampaign.Contact{ID: "30"},
		logs: []activecampaign.TrackingLog{
			{Tstamp: ts(1), Value: "https://site.com/lp?gclid=xyz&group=promo"},
		},
	}

	resolver := NewResolver(crm, marketing, "field_abc", 100, testLogger())
	result, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.NoError(t, err)
	assert.Equal(t, ChannelGoogleAds, result.Channel)
	require.NotNil(t, result.Group)
	assert.Equal(t, "promo", *result.Group)
}

func TestResolveDealWithoutPersonIsLinkageError(t *testing.T) {
	crm := &fakeCRM{deal: &pipedrive.Deal{ID: 10}}

	resolver := NewResolver(crm, &fakeMarketing{}, "field_abc", 100, testLogger())
	_, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindLinkage))
}

func TestResolvePersonWithoutPrimaryEmailIsLinkageError(t *testing.T) {
	crm := linkedCRM()
	crm.person.Email = []pipedrive.Email{{Value: "x@b.com", Primary: false}}

	resolver := NewResolver(crm, &fakeMarketing{}, "field_abc", 100, testLogger())
	_, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindLinkage))
}

func TestResolveEmptyTrackingHistoryIsNotFound(t *testing.T) {
	marketing := &fakeMarketing{contact: &activecampaign.Contact{ID: "30"}}

	resolver := NewResolver(linkedCRM(), marketing, "field_abc", 100, testLogger())
	_, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveHistoryWithoutPageVisitsIsNotFound(t *testing.T) {
	marketing := &fakeMarketing{
		contact: &activecampaign.Contact{ID: "30"},
		logs: []activecampaign.TrackingLog{
			{Tstamp: ts(1), Value: ""},
			{Tstamp: ts(2), Value: ""},
		},
	}

	resolver := NewResolver(linkedCRM(), marketing, "field_abc", 100, testLogger())
	_, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveContactLookupErrorPropagates(t *testing.T) {
	marketing := &fakeMarketing{contactErr: apperrors.NewNotFound("no contact found for email a@b.com")}

	resolver := NewResolver(linkedCRM(), marketing, "field_abc", 100, testLogger())
	_, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestResolveWriteBackFailureSurfaces(t *testing.T) {
	crm := linkedCRM()
	crm.updateErr = apperrors.NewUpstream("pipedrive: boom")
	marketing := &fakeMarketing{
		contact: &activecampaign.Contact{ID: "30"},
		logs:    []activecampaign.TrackingLog{{Tstamp: ts(1), Value: "u1"}},
	}

	resolver := NewResolver(crm, marketing, "field_abc", 100, testLogger())
	_, err := resolver.ResolveAndAttribute(context.Background(), "10")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUpstream))
}
