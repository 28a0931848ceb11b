package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusnest/service-housing/internal/application"
	"github.com/campusnest/service-housing/internal/export"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/middleware"
	"github.com/campusnest/service-housing/internal/platform/response"
)

// AdminHandler handles moderation, reporting and audit endpoints.
type AdminHandler struct {
	service *application.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *application.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	adminRole := middleware.RequireRole(auth.RoleAdmin)

	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, adminRole)
	{
		admin.GET("/properties/pending", h.ListPendingProperties)
		admin.POST("/properties/:id/approve", h.ApproveProperty)
		admin.POST("/properties/:id/reject", h.RejectProperty)
		admin.GET("/stats", h.DashboardStats)
		admin.GET("/audit-logs", h.ListAuditLogs)
		admin.GET("/bookings/export", h.ExportBookings)
	}
}

// ListPendingProperties handles GET /api/v1/admin/properties/pending.
func (h *AdminHandler) ListPendingProperties(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListPendingProperties(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ApproveProperty handles POST /api/v1/admin/properties/:id/approve.
func (h *AdminHandler) ApproveProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ApproveProperty(c.Request.Context(), adminID, propertyID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RejectProperty handles POST /api/v1/admin/properties/:id/reject.
func (h *AdminHandler) RejectProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.RejectProperty(c.Request.Context(), adminID, propertyID, body.Reason, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DashboardStats handles GET /api/v1/admin/stats.
func (h *AdminHandler) DashboardStats(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// ListAuditLogs handles GET /api/v1/admin/audit-logs.
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListAuditLogs(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ExportBookings handles GET /api/v1/admin/bookings/export.
func (h *AdminHandler) ExportBookings(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	data, err := h.service.ExportBookings(c.Request.Context(), adminID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentTypeXLSX, data)
}
