package response

import (
	"errors"
	"net/http"

	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// Paginated writes a 200 response with paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"pagination": gin.H{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": totalPages,
		},
	})
}

// BadRequest writes a 400 validation error.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   ErrorBody{Code: string(domain.KindValidation), Message: msg},
	})
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   ErrorBody{Code: "UNAUTHORIZED", Message: msg},
	})
}

// Forbidden writes a 403.
func Forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error":   ErrorBody{Code: string(domain.KindForbidden), Message: msg},
	})
}

// Error maps a domain error to its HTTP status; anything else is a 500.
func Error(c *gin.Context, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
		})
		return
	}

	c.JSON(StatusFor(de.Kind), gin.H{
		"success": false,
		"error":   ErrorBody{Code: string(de.Kind), Message: de.Message},
	})
}

// StatusFor returns the HTTP status code for an error kind.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindInvalidState, domain.KindCapacityExhausted:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
