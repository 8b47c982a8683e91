package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/syncstore"
)

// SyncStatusHandler handles the per-contact sync state endpoints used by the
// messaging integration.
type SyncStatusHandler struct {
	store *syncstore.Store
}

// NewSyncStatusHandler creates a new sync status handler
func NewSyncStatusHandler(store *syncstore.Store) *SyncStatusHandler {
	return &SyncStatusHandler{
		store: store,
	}
}

// UpsertSyncStatusRequest is the request body for a sync status write. The
// contact is identified by phoneNumber or contactName; the remaining fields
// are the partial update (absent fields stay untouched in the stored record).
type UpsertSyncStatusRequest struct {
	PhoneNumber           string  `json:"phoneNumber"`
	ContactName           string  `json:"contactName"`
	DealID                *string `json:"dealId"`
	LastMessageIdentifier *string `json:"lastMessageIdentifier"`
	SyncedBy              *string `json:"syncedBy"`
}

// RegisterRoutes registers the sync status routes
func (h *SyncStatusHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sync/status", h.Upsert)
	g.GET("/sync/status", h.Read)
}

// Upsert handles POST /sync/status
func (h *SyncStatusHandler) Upsert(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpsertSyncStatusRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}

	identifier := req.PhoneNumber
	if identifier == "" {
		identifier = req.ContactName
	}
	if identifier == "" {
		return BadRequest("phoneNumber or contactName is required")
	}

	record, err := h.store.Upsert(ctx, identifier, syncstore.Partial{
		DealID:                req.DealID,
		LastMessageIdentifier: req.LastMessageIdentifier,
		SyncedBy:              req.SyncedBy,
	})
	if err != nil {
		return err
	}

	return SuccessResponse(c, record)
}

// Read handles GET /sync/status
func (h *SyncStatusHandler) Read(c echo.Context) error {
	ctx := c.Request().Context()

	identifier := c.QueryParam("phoneNumber")
	if identifier == "" {
		identifier = c.QueryParam("contactName")
	}
	if identifier == "" {
		return BadRequest("phoneNumber or contactName is required")
	}

	record, err := h.store.Read(ctx, identifier)
	if err != nil {
		return err
	}

	return SuccessResponse(c, record)
}
