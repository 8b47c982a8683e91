package syncstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ramsey-B/clover/pkg/errors"
)

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

type fakeKV struct {
	data   map[string]string
	getErr error
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) GetOptional(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = fmt.Sprint(v)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       string
	}{
		{name: "international phone reduces to digits", identifier: "+55 48 9908-1334", want: "554899081334"},
		{name: "phone with parens and dots", identifier: "+1 (415) 555.0134", want: "14155550134"},
		{name: "display name passes through", identifier: "Maria Silva", want: "Maria Silva"},
		{name: "digits without plus pass through", identifier: "554899081334", want: "554899081334"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeKey(tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeKeyRejectsEmptyResults(t *testing.T) {
	for _, identifier := range []string{"", "+", "+--()"} {
		_, err := NormalizeKey(identifier)
		require.Error(t, err, "identifier %q", identifier)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidKey))
	}
}

func TestUpsertCreatesRecordOnFirstWrite(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, testLogger())

	record, err := store.Upsert(context.Background(), "+55 48 9908-1334", Partial{DealID: strPtr("42")})

	require.NoError(t, err)
	require.NotNil(t, record.DealID)
	assert.Equal(t, "42", *record.DealID)
	assert.Nil(t, record.LastMessageIdentifier)
	assert.Nil(t, record.SyncedBy)
	assert.Nil(t, record.LastSyncTimestamp)

	// Stored under the normalized key
	_, ok := kv.data[keyPrefix+"554899081334"]
	assert.True(t, ok)
}

func TestUpsertMergesFieldsIndependently(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, testLogger())
	ctx := context.Background()

	_, err := store.Upsert(ctx, "Maria Silva", Partial{DealID: strPtr("42")})
	require.NoError(t, err)

	record, err := store.Upsert(ctx, "Maria Silva", Partial{LastMessageIdentifier: strPtr("msg-9")})
	require.NoError(t, err)

	require.NotNil(t, record.DealID)
	assert.Equal(t, "42", *record.DealID)
	require.NotNil(t, record.LastMessageIdentifier)
	assert.Equal(t, "msg-9", *record.LastMessageIdentifier)
}

func TestUpsertOverwritesPresentFields(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, testLogger())
	ctx := context.Background()

	_, err := store.Upsert(ctx, "Maria Silva", Partial{DealID: strPtr("42")})
	require.NoError(t, err)

	record, err := store.Upsert(ctx, "Maria Silva", Partial{DealID: strPtr("77")})
	require.NoError(t, err)

	require.NotNil(t, record.DealID)
	assert.Equal(t, "77", *record.DealID)
}

func TestUpsertStampsSyncTimestampWithSyncedBy(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, testLogger())
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	record, err := store.Upsert(context.Background(), "Maria Silva", Partial{SyncedBy: strPtr("agent-7")})

	require.NoError(t, err)
	require.NotNil(t, record.SyncedBy)
	assert.Equal(t, "agent-7", *record.SyncedBy)
	require.NotNil(t, record.LastSyncTimestamp)
	assert.Equal(t, "2026-03-14T09:26:53Z", *record.LastSyncTimestamp)
}

func TestUpsertWithoutSyncedByLeavesTimestampUntouched(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, testLogger())
	ctx := context.Background()

	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	_, err := store.Upsert(ctx, "Maria Silva", Partial{SyncedBy: strPtr("agent-7")})
	require.NoError(t, err)

	store.now = func() time.Time { return fixed.Add(time.Hour) }
	record, err := store.Upsert(ctx, "Maria Silva", Partial{DealID: strPtr("42")})
	require.NoError(t, err)

	require.NotNil(t, record.LastSyncTimestamp)
	assert.Equal(t, "2026-03-14T09:26:53Z", *record.LastSyncTimestamp)
}

func TestUpsertInvalidIdentifier(t *testing.T) {
	store := NewStore(newFakeKV(), testLogger())

	_, err := store.Upsert(context.Background(), "+", Partial{DealID: strPtr("42")})

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidKey))
}

func TestReadRoundTripsThroughNormalization(t *testing.T) {
	kv := newFakeKV()
	store := NewStore(kv, testLogger())
	ctx := context.Background()

	_, err := store.Upsert(ctx, "+55 48 9908-1334", Partial{DealID: strPtr("42")})
	require.NoError(t, err)

	// A differently formatted rendering of the same number hits the same record
	record, err := store.Read(ctx, "+55 (48) 9908 1334")
	require.NoError(t, err)
	require.NotNil(t, record.DealID)
	assert.Equal(t, "42", *record.DealID)
}

func TestReadMissingRecordIsNotFound(t *testing.T) {
	store := NewStore(newFakeKV(), testLogger())

	_, err := store.Read(context.Background(), "Maria Silva")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUpsertBackendErrorSurfaces(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = fmt.Errorf("connection refused")
	store := NewStore(kv, testLogger())

	_, err := store.Upsert(context.Background(), "Maria Silva", Partial{DealID: strPtr("42")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
