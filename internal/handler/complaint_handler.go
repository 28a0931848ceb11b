package handler

import (
	"net/http"

	"github.com/campusnest/service-housing/internal/application"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/middleware"
	"github.com/campusnest/service-housing/internal/platform/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ComplaintHandler handles complaint filing, viewing and admin resolution.
type ComplaintHandler struct {
	service *application.ComplaintService
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(service *application.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

// RegisterRoutes registers complaint routes and the admin resolution routes.
func (h *ComplaintHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	complaints := r.Group("/api/v1/complaints")
	complaints.Use(authMW)
	{
		complaints.POST("", middleware.RequireRole(auth.RoleTenant), h.FileComplaint)
		complaints.GET("", h.ListComplaints)
		complaints.GET("/:id", h.GetComplaint)
	}

	admin := r.Group("/api/v1/admin/complaints")
	admin.Use(authMW, middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("", h.ListComplaints)
		admin.PUT("/:id/status", h.UpdateComplaintStatus)
	}
}

// FileComplaint handles POST /api/v1/complaints.
func (h *ComplaintHandler) FileComplaint(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.FileComplaint(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListComplaints handles GET /api/v1/complaints and GET /api/v1/admin/complaints.
// An optional status query filters the results.
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.ListComplaints(c.Request.Context(), actor, c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetComplaint handles GET /api/v1/complaints/:id.
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid complaint ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetComplaint(c.Request.Context(), actor, complaintID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateComplaintStatus handles PUT /api/v1/admin/complaints/:id/status.
func (h *ComplaintHandler) UpdateComplaintStatus(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid complaint ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateComplaintStatus(c.Request.Context(), actor.ID, complaintID, req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
