package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/complaint"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// CreateComplaint handles POST /api/v1/complaints
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	created, err := h.complaints.Create(c.Request.Context(), identity(c), complaint.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Images:      req.Images,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListComplaints handles GET /api/v1/complaints
// Query: mine=true limits to the caller's complaints, owner_id to any user's.
func (h *Handler) ListComplaints(c *gin.Context) {
	var filter domain.ComplaintFilter
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		caller := identity(c)
		if caller.UserID == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "authentication required", "code": codeForbidden})
			return
		}
		filter.OwnerID = caller.UserID
	} else if owner := c.Query("owner_id"); owner != "" {
		filter.OwnerID = owner
	}

	list, err := h.complaints.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ComplaintsResponse{Complaints: list, Total: len(list)})
}

// GetComplaint handles GET /api/v1/complaints/:id
func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.complaints.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// UpdateStatus handles PATCH /api/v1/complaints/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.respond(c)(h.complaints.UpdateStatus(c.Request.Context(), identity(c), c.Param("id"), req.Status))
}

// UpdatePriority handles PATCH /api/v1/complaints/:id/priority
func (h *Handler) UpdatePriority(c *gin.Context) {
	var req UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.respond(c)(h.complaints.UpdatePriority(c.Request.Context(), identity(c), c.Param("id"), req.Priority))
}

// SubmitRating handles PUT /api/v1/complaints/:id/rating
func (h *Handler) SubmitRating(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.respond(c)(h.complaints.SubmitRating(c.Request.Context(), identity(c), c.Param("id"), req.Rating, req.Comment))
}

// MarkRedirected handles POST /api/v1/complaints/:id/redirect
func (h *Handler) MarkRedirected(c *gin.Context) {
	h.respond(c)(h.complaints.MarkRedirected(c.Request.Context(), identity(c), c.Param("id")))
}

// ReassignEntity handles PUT /api/v1/complaints/:id/entity
func (h *Handler) ReassignEntity(c *gin.Context) {
	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	h.respond(c)(h.complaints.ReassignEntity(c.Request.Context(), identity(c), c.Param("id"), req.EntityID))
}

// ResolveEntity handles POST /api/v1/complaints/:id/resolve-entity
func (h *Handler) ResolveEntity(c *gin.Context) {
	h.respond(c)(h.complaints.ResolveEntity(c.Request.Context(), identity(c), c.Param("id")))
}

// Reclassify handles POST /api/v1/complaints/:id/reclassify
func (h *Handler) Reclassify(c *gin.Context) {
	h.respond(c)(h.complaints.Reclassify(c.Request.Context(), identity(c), c.Param("id")))
}

// DeleteComplaint handles DELETE /api/v1/complaints/:id
func (h *Handler) DeleteComplaint(c *gin.Context) {
	if err := h.complaints.Delete(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respond writes a mutated complaint or the error.
func (h *Handler) respond(c *gin.Context) func(*domain.Complaint, error) {
	return func(updated *domain.Complaint, err error) {
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
