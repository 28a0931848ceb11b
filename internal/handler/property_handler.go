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

// PropertyHandler handles HTTP requests for listings and rooms.
type PropertyHandler struct {
	service *application.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(service *application.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// RegisterRoutes registers property routes. Reads are public; writes need an
// owner or admin token.
func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	optionalAuth := middleware.OptionalAuthMiddleware(jwtManager)
	authMW := middleware.AuthMiddleware(jwtManager)
	ownerOrAdmin := middleware.RequireRole(auth.RoleOwner, auth.RoleAdmin)

	properties := r.Group("/api/v1/properties")
	{
		properties.GET("", optionalAuth, h.ListProperties)
		properties.GET("/:id", optionalAuth, h.GetProperty)
		properties.POST("", authMW, ownerOrAdmin, h.CreateProperty)
		properties.POST("/:id/rooms", authMW, ownerOrAdmin, h.AddRoom)
		properties.PUT("/:id", authMW, ownerOrAdmin, h.UpdateProperty)
		properties.DELETE("/:id", authMW, ownerOrAdmin, h.DeleteProperty)
	}
}

// ListProperties handles GET /api/v1/properties.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	var q application.ListPropertiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.ListProperties(c.Request.Context(), optionalActor(c), q, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetProperty handles GET /api/v1/properties/:id.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	result, err := h.service.GetProperty(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateProperty handles POST /api/v1/properties.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateProperty(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// AddRoom handles POST /api/v1/properties/:id/rooms.
func (h *PropertyHandler) AddRoom(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.RoomInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddRoom(c.Request.Context(), actor, propertyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateProperty handles PUT /api/v1/properties/:id.
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateProperty(c.Request.Context(), actor, propertyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteProperty handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.DeleteProperty(c.Request.Context(), actor, propertyID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "property deleted"})
}
