package handlers

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/attribution"
	"github.com/Ramsey-B/clover/pkg/events"
)

// AttributionResolver resolves first-touch attribution for a deal.
type AttributionResolver interface {
	ResolveAndAttribute(ctx context.Context, dealID string) (*attribution.Result, error)
}

// AttributionHandler handles attribution resolution requests
type AttributionHandler struct {
	resolver AttributionResolver
	emitter  *events.Emitter
}

// NewAttributionHandler creates a new attribution handler. emitter may be nil
// when eventing is not configured.
func NewAttributionHandler(resolver AttributionResolver, emitter *events.Emitter) *AttributionHandler {
	return &AttributionHandler{
		resolver: resolver,
		emitter:  emitter,
	}
}

// ResolveAttributionRequest is the request body for triggering a resolution
type ResolveAttributionRequest struct {
	DealID string `json:"dealId"`
}

// RegisterRoutes registers the attribution routes
func (h *AttributionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/attribution", h.Resolve)
}

// Resolve handles POST /attribution
func (h *AttributionHandler) Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResolveAttributionRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if req.DealID == "" {
		return BadRequest("dealId is required")
	}

	result, err := h.resolver.ResolveAndAttribute(ctx, req.DealID)
	if err != nil {
		return err
	}

	h.emitter.EmitAttributionResolved(ctx, req.DealID, result)

	return SuccessResponse(c, result)
}
