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

// WishlistHandler handles a tenant's saved properties.
type WishlistHandler struct {
	service *application.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *application.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// RegisterRoutes registers wishlist routes; all are tenant only.
func (h *WishlistHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	wishlist := r.Group("/api/v1/wishlist")
	wishlist.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleTenant))
	{
		wishlist.POST("", h.AddToWishlist)
		wishlist.GET("", h.ListWishlist)
		wishlist.DELETE("/:id", h.RemoveFromWishlist)
	}
}

// AddToWishlist handles POST /api/v1/wishlist.
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddToWishlist(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListWishlist handles GET /api/v1/wishlist.
func (h *WishlistHandler) ListWishlist(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListWishlist(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/:id.
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid wishlist item ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.RemoveFromWishlist(c.Request.Context(), actor, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "removed from wishlist"})
}
