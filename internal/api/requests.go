package api

import (
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/importer"
)

// CreateComplaintRequest is the body of POST /complaints.
type CreateComplaintRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    domain.Location `json:"location"`
	Images      []string        `json:"images"`
}

// UpdateStatusRequest is the body of PATCH /complaints/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePriorityRequest is the body of PATCH /complaints/:id/priority.
type UpdatePriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

// RatingRequest is the body of PUT /complaints/:id/rating. Range checks
// happen in the service so they report as validation errors.
type RatingRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReassignRequest is the body of PUT /complaints/:id/entity.
type ReassignRequest struct {
	EntityID string `json:"entity_id" binding:"required"`
}

// CommentRequest is the body of POST /complaints/:id/comments.
type CommentRequest struct {
	Text string `json:"text"`
}

// ComplaintsResponse lists complaints.
type ComplaintsResponse struct {
	Complaints []*domain.Complaint `json:"complaints"`
	Total      int                 `json:"total"`
}

// CommentsResponse lists a thread.
type CommentsResponse struct {
	Comments []*domain.Comment `json:"comments"`
	Total    int               `json:"total"`
}

// EntitiesResponse lists the directory.
type EntitiesResponse struct {
	Entities []domain.Entity `json:"entities"`
	Total    int             `json:"total"`
}

// EntityImportResponse reports a spreadsheet import. Rows listed in Errors
// were not created.
type EntityImportResponse struct {
	Created []domain.Entity        `json:"created"`
	Errors  []importer.ImportError `json:"errors"`
}
