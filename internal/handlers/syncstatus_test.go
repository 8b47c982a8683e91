package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/middleware"
	"github.com/Ramsey-B/clover/pkg/syncstore"
)

type memoryKV struct {
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) GetOptional(ctx context.Context, key string) (string, bool, error) {
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *memoryKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	default:
		m.data[key] = fmt.Sprint(v)
	}
	return nil
}

func syncServer() *echo.Echo {
	store := syncstore.NewStore(newMemoryKV(), testLogger())
	return newTestServer(NewSyncStatusHandler(store).RegisterRoutes)
}

func TestUpsertThenReadSyncStatus(t *testing.T) {
	e := syncServer()

	rec := doJSON(e, http.MethodPost, "/api/v1/sync/status", `{"phoneNumber":"+55 48 9908-1334","dealId":"42"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/sync/status", `{"phoneNumber":"+55 (48) 9908 1334","lastMessageIdentifier":"msg-9"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/sync/status?phoneNumber=%2B554899081334", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    syncstore.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Data.DealID)
	assert.Equal(t, "42", *body.Data.DealID)
	require.NotNil(t, body.Data.LastMessageIdentifier)
	assert.Equal(t, "msg-9", *body.Data.LastMessageIdentifier)
	assert.Nil(t, body.Data.SyncedBy)
}

func TestUpsertSyncStatusByContactName(t *testing.T) {
	e := syncServer()

	rec := doJSON(e, http.MethodPost, "/api/v1/sync/status", `{"contactName":"Maria Silva","syncedBy":"agent-7"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    syncstore.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Data.SyncedBy)
	assert.Equal(t, "agent-7", *body.Data.SyncedBy)
	require.NotNil(t, body.Data.LastSyncTimestamp)
	_, err := time.Parse(time.RFC3339, *body.Data.LastSyncTimestamp)
	assert.NoError(t, err)
}

func TestUpsertSyncStatusMissingIdentifier(t *testing.T) {
	e := syncServer()

	rec := doJSON(e, http.MethodPost, "/api/v1/sync/status", `{"dealId":"42"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "phoneNumber or contactName is required")
}

func TestUpsertSyncStatusInvalidKey(t *testing.T) {
	e := syncServer()

	rec := doJSON(e, http.MethodPost, "/api/v1/sync/status", `{"phoneNumber":"+","dealId":"42"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReadSyncStatusNotFound(t *testing.T) {
	e := syncServer()

	rec := doJSON(e, http.MethodGet, "/api/v1/sync/status?contactName=Nobody", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
}

func TestReadSyncStatusMissingIdentifier(t *testing.T) {
	e := syncServer()

	rec := doJSON(e, http.MethodGet, "/api/v1/sync/status", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
