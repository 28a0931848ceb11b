package application

import (
	"context"
	"math"
	"time"

	bookingDomain "github.com/campusnest/service-housing/internal/domain/booking"
	propertyDomain "github.com/campusnest/service-housing/internal/domain/property"
	reviewDomain "github.com/campusnest/service-housing/internal/domain/review"
	"github.com/campusnest/service-housing/internal/events"
	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateReviewRequest is the payload for reviewing a property.
type CreateReviewRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required"`
	Comment    string    `json:"comment" binding:"required"`
}

// UpdateReviewRequest carries a partial review edit.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// ReviewService handles tenant reviews of properties they stayed at.
type ReviewService struct {
	reviews    reviewDomain.Repository
	bookings   bookingDomain.BookingRepository
	properties propertyDomain.PropertyRepository
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews reviewDomain.Repository,
	bookings bookingDomain.BookingRepository,
	properties propertyDomain.PropertyRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		bookings:   bookings,
		properties: properties,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateReview posts a review. Only tenants with a completed stay at the
// property may review it, once.
func (s *ReviewService) CreateReview(ctx context.Context, actor Actor, req CreateReviewRequest) (*ReviewDTO, error) {
	if actor.Role != auth.RoleTenant {
		return nil, domain.NewForbiddenError("only tenants can review properties")
	}
	if _, err := s.properties.FindByID(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	stayed, err := s.bookings.HasCompletedBooking(ctx, actor.ID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !stayed {
		return nil, domain.NewValidationError("you must complete a booking before reviewing this property")
	}
	exists, err := s.reviews.Exists(ctx, actor.ID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewValidationError("you have already reviewed this property")
	}

	rv, err := reviewDomain.NewReview(actor.ID, req.PropertyID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, rv); err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		zap.String("review_id", rv.ID().String()),
		zap.String("property_id", rv.PropertyID().String()),
		zap.Int("rating", rv.Rating()),
	)

	evt := events.PropertyReviewedEvent{
		ReviewID:   rv.ID(),
		PropertyID: rv.PropertyID(),
		TenantID:   rv.TenantID(),
		Rating:     rv.Rating(),
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, events.TopicPropertyEvents, events.PropertyReviewed, rv.PropertyID().String(), evt)

	result := toReviewDTO(rv)
	return &result, nil
}

// ListReviews returns reviews newest first, optionally for one property.
func (s *ReviewService) ListReviews(ctx context.Context, propertyID *uuid.UUID, page, limit int) (*domain.PaginatedResult[ReviewDTO], error) {
	reviews, total, err := s.reviews.List(ctx, propertyID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toReviewDTOs(reviews), total, page, limit)
	return &result, nil
}

// GetPropertyReviews returns a page of a property's reviews with its average
// rating rounded to one decimal.
func (s *ReviewService) GetPropertyReviews(ctx context.Context, propertyID uuid.UUID, page, limit int) (*PropertyReviewsDTO, error) {
	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}
	reviews, _, err := s.reviews.List(ctx, &propertyID, page, limit)
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.Summarize(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	result := &PropertyReviewsDTO{
		Reviews:     toReviewDTOs(reviews),
		ReviewCount: summary.Count,
		Page:        page,
		Limit:       limit,
	}
	if summary.Count > 0 {
		avg := math.Round(summary.Average*10) / 10
		result.AverageRating = &avg
	}
	return result, nil
}

// UpdateReview edits a review. Only its author may change it.
func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, reviewID uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error) {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !rv.IsAuthor(actor.ID) {
		return nil, domain.NewForbiddenError("you can only edit your own reviews")
	}
	if err := rv.Update(req.Rating, req.Comment); err != nil {
		return nil, err
	}
	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}
	result := toReviewDTO(rv)
	return &result, nil
}

// DeleteReview removes a review. Its author or an admin may delete it.
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, reviewID uuid.UUID) error {
	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !rv.IsAuthor(actor.ID) && !actor.IsAdmin() {
		return domain.NewForbiddenError("you can only delete your own reviews")
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.logger.Info("review deleted",
		zap.String("review_id", reviewID.String()),
		zap.String("deleted_by", actor.ID.String()),
	)
	return nil
}
