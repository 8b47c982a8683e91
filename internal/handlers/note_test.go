package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/middleware"
)

type fakeNoteCreator struct {
	noteID     int64
	err        error
	gotDealID  int64
	gotContent string
}

func (f *fakeNoteCreator) CreateNote(ctx context.Context, dealID int64, content string) (int64, error) {
	f.gotDealID = dealID
	f.gotContent = content
	if f.err != nil {
		return 0, f.err
	}
	return f.noteID, nil
}

func TestCreateNote(t *testing.T) {
	crm := &fakeNoteCreator{noteID: 555}
	e := newTestServer(NewNoteHandler(crm).RegisterRoutes)

	rec := doJSON(e, http.MethodPost, "/api/v1/notes", `{"dealId":"10","note":"called back, wants a demo"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), crm.gotDealID)
	assert.Equal(t, "called back, wants a demo", crm.gotContent)

	var body struct {
		Success bool               `json:"success"`
		Data    CreateNoteResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(555), body.Data.ActivityID)
}

func TestCreateNoteValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing dealId", body: `{"note":"hi"}`, want: "dealId and note are required"},
		{name: "missing note", body: `{"dealId":"10"}`, want: "dealId and note are required"},
		{name: "non-numeric dealId", body: `{"dealId":"abc","note":"hi"}`, want: "dealId must be numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(NewNoteHandler(&fakeNoteCreator{}).RegisterRoutes)

			rec := doJSON(e, http.MethodPost, "/api/v1/notes", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tt.want)
		})
	}
}

func TestCreateNoteUpstreamFailure(t *testing.T) {
	crm := &fakeNoteCreator{err: apperrors.NewUpstream("pipedrive: boom")}
	e := newTestServer(NewNoteHandler(crm).RegisterRoutes)

	rec := doJSON(e, http.MethodPost, "/api/v1/notes", `{"dealId":"10","note":"hi"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
