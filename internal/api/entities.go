package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/importer"
)

// ListEntities handles GET /api/v1/entities
// Inactive entities are included only with ?all=true.
func (h *Handler) ListEntities(c *gin.Context) {
	list := h.directory.Active()
	if c.Query("all") == "true" {
		list = h.directory.List()
	}
	c.JSON(http.StatusOK, EntitiesResponse{Entities: list, Total: len(list)})
}

// GetEntity handles GET /api/v1/entities/:id
func (h *Handler) GetEntity(c *gin.Context) {
	entity, err := h.directory.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity)
}

// CreateEntity handles POST /api/v1/entities
func (h *Handler) CreateEntity(c *gin.Context) {
	var req directory.EntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	created, err := h.entities.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateEntity handles PUT /api/v1/entities/:id
func (h *Handler) UpdateEntity(c *gin.Context) {
	var req directory.EntityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	updated, err := h.entities.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteEntity handles DELETE /api/v1/entities/:id
func (h *Handler) DeleteEntity(c *gin.Context) {
	if err := h.entities.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportEntities handles POST /api/v1/entities/import
// Multipart field "file" holds an .xlsx sheet; see importer.Headers.
func (h *Handler) ImportEntities(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		h.badRequest(c, err)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	rows, rowErrs := importer.ParseExcelFile(file)
	resp := EntityImportResponse{Created: []domain.Entity{}, Errors: rowErrs}
	for _, row := range rows {
		created, createErr := h.entities.Create(c.Request.Context(), row.ToInput())
		if createErr != nil {
			resp.Errors = append(resp.Errors, importer.ImportError{Row: row.Row, Error: createErr.Error()})
			continue
		}
		resp.Created = append(resp.Created, created)
	}
	if resp.Errors == nil {
		resp.Errors = []importer.ImportError{}
	}

	logger.FromContext(c.Request.Context(), h.log).Info("Entities imported",
		logger.Int("created", len(resp.Created)),
		logger.Int("rejected", len(resp.Errors)))
	c.JSON(http.StatusOK, resp)
}

// ReloadEntities handles POST /api/v1/entities/reload
func (h *Handler) ReloadEntities(c *gin.Context) {
	if err := h.entities.Reload(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	list := h.directory.List()
	c.JSON(http.StatusOK, EntitiesResponse{Entities: list, Total: len(list)})
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(c *gin.Context) {
	snapshot, err := h.stats.Compute(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
