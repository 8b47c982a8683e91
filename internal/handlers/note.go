package handlers

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
)

// NoteCreator attaches a note to a CRM deal.
type NoteCreator interface {
	CreateNote(ctx context.Context, dealID int64, content string) (int64, error)
}

// NoteHandler handles conversation-note sync requests from the extension.
type NoteHandler struct {
	crm NoteCreator
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(crm NoteCreator) *NoteHandler {
	return &NoteHandler{
		crm: crm,
	}
}

// CreateNoteRequest is the request body for attaching a note to a deal. The
// note arrives pre-formatted from the extension's content script.
type CreateNoteRequest struct {
	DealID string `json:"dealId"`
	Note   string `json:"note"`
}

// CreateNoteResponse carries the created note's identifier.
type CreateNoteResponse struct {
	ActivityID int64 `json:"activityId"`
}

// RegisterRoutes registers the note routes
func (h *NoteHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/notes", h.Create)
}

// Create handles POST /notes
func (h *NoteHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if req.DealID == "" || req.Note == "" {
		return BadRequest("dealId and note are required")
	}

	dealID, err := strconv.ParseInt(req.DealID, 10, 64)
	if err != nil {
		return BadRequest("dealId must be numeric")
	}

	noteID, err := h.crm.CreateNote(ctx, dealID, req.Note)
	if err != nil {
		return err
	}

	return SuccessResponse(c, CreateNoteResponse{ActivityID: noteID})
}
