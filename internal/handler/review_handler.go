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

// ReviewHandler handles HTTP requests for property reviews.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers review routes. Reading reviews is public.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)

	reviews := r.Group("/api/v1/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.GET("/property/:id", h.GetPropertyReviews)
		reviews.POST("", authMW, middleware.RequireRole(auth.RoleTenant), h.CreateReview)
		reviews.PUT("/:id", authMW, h.UpdateReview)
		reviews.DELETE("/:id", authMW, h.DeleteReview)
	}
}

// ListReviews handles GET /api/v1/reviews?property_id=.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var propertyID *uuid.UUID
	if raw := c.Query("property_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid property ID")
			return
		}
		propertyID = &id
	}
	page, limit := parsePagination(c)

	result, err := h.service.ListReviews(c.Request.Context(), propertyID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetPropertyReviews handles GET /api/v1/reviews/property/:id.
func (h *ReviewHandler) GetPropertyReviews(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	page, limit := parsePagination(c)

	result, err := h.service.GetPropertyReviews(c.Request.Context(), propertyID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateReview handles POST /api/v1/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateReview(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateReview handles PUT /api/v1/reviews/:id.
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateReview(c.Request.Context(), actor, reviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteReview handles DELETE /api/v1/reviews/:id.
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review ID")
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.DeleteReview(c.Request.Context(), actor, reviewID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "review deleted"})
}
