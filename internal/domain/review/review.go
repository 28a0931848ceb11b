package review

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

// Review is a tenant's rating of a property they stayed at.
type Review struct {
	id         uuid.UUID
	propertyID uuid.UUID
	tenantID   uuid.UUID
	rating     int
	comment    string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewReview creates a review. Eligibility (a completed booking) is checked by
// the caller.
func NewReview(tenantID, propertyID uuid.UUID, rating int, comment string) (*Review, error) {
	if tenantID == uuid.Nil || propertyID == uuid.Nil {
		return nil, domain.NewValidationError("tenant and property are required")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	comment, err := normalizeComment(comment)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Review{
		id:         uuid.New(),
		propertyID: propertyID,
		tenantID:   tenantID,
		rating:     rating,
		comment:    comment,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a Review from persistence data (no validation).
func Reconstruct(id, propertyID, tenantID uuid.UUID, rating int, comment string, createdAt, updatedAt time.Time) *Review {
	return &Review{
		id:         id,
		propertyID: propertyID,
		tenantID:   tenantID,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Review) ID() uuid.UUID         { return r.id }
func (r *Review) PropertyID() uuid.UUID { return r.propertyID }
func (r *Review) TenantID() uuid.UUID   { return r.tenantID }
func (r *Review) Rating() int           { return r.rating }
func (r *Review) Comment() string       { return r.comment }
func (r *Review) CreatedAt() time.Time  { return r.createdAt }
func (r *Review) UpdatedAt() time.Time  { return r.updatedAt }

// IsAuthor reports whether id wrote the review.
func (r *Review) IsAuthor(id uuid.UUID) bool { return r.tenantID == id }

// Update applies the non-nil fields. Nothing changes if either is invalid.
func (r *Review) Update(rating *int, comment *string) error {
	next := r.comment
	if comment != nil {
		c, err := normalizeComment(*comment)
		if err != nil {
			return err
		}
		next = c
	}
	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return err
		}
		r.rating = *rating
	}
	r.comment = next
	r.updatedAt = time.Now().UTC()
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return domain.NewValidationError("rating must be between 1 and 5")
	}
	return nil
}

func normalizeComment(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return "", domain.NewValidationError("comment is required")
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return "", domain.NewValidationError("comment must be at most 1000 characters")
	}
	return comment, nil
}

// Summary aggregates the ratings of one property.
type Summary struct {
	Average float64
	Count   int64
}

// Repository persists reviews. A tenant reviews a property at most once.
type Repository interface {
	Save(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// Exists reports whether the tenant already reviewed the property.
	Exists(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error)

	// List returns reviews newest first, optionally limited to one property.
	List(ctx context.Context, propertyID *uuid.UUID, page, limit int) ([]*Review, int64, error)

	// Summarize returns the average rating and review count of a property.
	Summarize(ctx context.Context, propertyID uuid.UUID) (Summary, error)
}
