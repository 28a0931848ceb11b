package property

import (
	"fmt"
	"strings"
	"time"

	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

// PropertyStatus is the moderation state of a listing.
type PropertyStatus string

const (
	StatusPending  PropertyStatus = "pending"
	StatusApproved PropertyStatus = "approved"
	StatusRejected PropertyStatus = "rejected"
)

// IsValid returns true if the status is recognized.
func (s PropertyStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ParsePropertyStatus converts a string to a PropertyStatus.
func ParsePropertyStatus(s string) (PropertyStatus, error) {
	status := PropertyStatus(s)
	if !status.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid property status: %s", s))
	}
	return status, nil
}

// Property is the aggregate root for a housing listing.
type Property struct {
	id                  uuid.UUID
	ownerID             uuid.UUID
	name                string
	nearestCollege      string
	distanceFromCollege float64
	facilities          []string
	images              []string
	status              PropertyStatus
	rejectionReason     string
	createdAt           time.Time
	updatedAt           time.Time
}

// Details are the owner-editable attributes of a listing.
type Details struct {
	Name                string
	NearestCollege      string
	DistanceFromCollege float64
	Facilities          []string
	Images              []string
}

func (d Details) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return domain.NewValidationError("property name is required")
	}
	if strings.TrimSpace(d.NearestCollege) == "" {
		return domain.NewValidationError("nearest college is required")
	}
	if d.DistanceFromCollege < 0 {
		return domain.NewValidationError("distance cannot be negative")
	}
	return nil
}

// NewProperty creates a listing awaiting moderation.
func NewProperty(ownerID uuid.UUID, d Details) (*Property, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if err := d.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Property{
		id:                  uuid.New(),
		ownerID:             ownerID,
		name:                strings.TrimSpace(d.Name),
		nearestCollege:      strings.TrimSpace(d.NearestCollege),
		distanceFromCollege: d.DistanceFromCollege,
		facilities:          trimAll(d.Facilities),
		images:              nonNil(d.Images),
		status:              StatusPending,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// Reconstruct rebuilds a Property from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, nearestCollege string,
	distanceFromCollege float64,
	facilities, images []string,
	status PropertyStatus,
	rejectionReason string,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:                  id,
		ownerID:             ownerID,
		name:                name,
		nearestCollege:      nearestCollege,
		distanceFromCollege: distanceFromCollege,
		facilities:          facilities,
		images:              images,
		status:              status,
		rejectionReason:     rejectionReason,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// --- Getters ---

func (p *Property) ID() uuid.UUID                { return p.id }
func (p *Property) OwnerID() uuid.UUID           { return p.ownerID }
func (p *Property) Name() string                 { return p.name }
func (p *Property) NearestCollege() string       { return p.nearestCollege }
func (p *Property) DistanceFromCollege() float64 { return p.distanceFromCollege }
func (p *Property) Facilities() []string         { return p.facilities }
func (p *Property) Images() []string             { return p.images }
func (p *Property) Status() PropertyStatus       { return p.status }
func (p *Property) RejectionReason() string      { return p.rejectionReason }
func (p *Property) CreatedAt() time.Time         { return p.createdAt }
func (p *Property) UpdatedAt() time.Time         { return p.updatedAt }

// --- Behavior ---

// IsOwnedBy reports whether userID owns the listing.
func (p *Property) IsOwnedBy(userID uuid.UUID) bool {
	return p.ownerID == userID
}

// IsListable reports whether tenants may see and book the listing.
func (p *Property) IsListable() bool {
	return p.status == StatusApproved
}

// Patch holds optional changes; nil fields are left untouched.
type Patch struct {
	Name                *string
	NearestCollege      *string
	DistanceFromCollege *float64
	Facilities          []string
	Images              []string
}

// ApplyPatch updates the editable attributes and re-validates them.
func (p *Property) ApplyPatch(patch Patch) error {
	d := Details{
		Name:                p.name,
		NearestCollege:      p.nearestCollege,
		DistanceFromCollege: p.distanceFromCollege,
		Facilities:          p.facilities,
		Images:              p.images,
	}
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.NearestCollege != nil {
		d.NearestCollege = *patch.NearestCollege
	}
	if patch.DistanceFromCollege != nil {
		d.DistanceFromCollege = *patch.DistanceFromCollege
	}
	if patch.Facilities != nil {
		d.Facilities = patch.Facilities
	}
	if patch.Images != nil {
		d.Images = patch.Images
	}
	if err := d.validate(); err != nil {
		return err
	}

	p.name = strings.TrimSpace(d.Name)
	p.nearestCollege = strings.TrimSpace(d.NearestCollege)
	p.distanceFromCollege = d.DistanceFromCollege
	p.facilities = trimAll(d.Facilities)
	p.images = nonNil(d.Images)
	p.updatedAt = time.Now().UTC()
	return nil
}

// Approve lists the property. Approving an approved listing is rejected.
func (p *Property) Approve() error {
	if p.status == StatusApproved {
		return domain.NewValidationError("property already approved")
	}
	p.status = StatusApproved
	p.rejectionReason = ""
	p.updatedAt = time.Now().UTC()
	return nil
}

// Reject delists the property with an optional reason.
func (p *Property) Reject(reason string) error {
	if p.status == StatusRejected {
		return domain.NewValidationError("property already rejected")
	}
	p.status = StatusRejected
	p.rejectionReason = strings.TrimSpace(reason)
	p.updatedAt = time.Now().UTC()
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
