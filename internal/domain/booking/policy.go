package booking

import (
	"context"

	"github.com/campusnest/service-housing/internal/platform/auth"
	"github.com/campusnest/service-housing/internal/platform/domain"
	"github.com/google/uuid"
)

// Actor is the authenticated principal requesting an operation.
type Actor struct {
	ID   uuid.UUID
	Role auth.Role
}

func (a Actor) IsAdmin() bool { return a.Role == auth.RoleAdmin }

// OwnerResolver looks up the owner of a property. It is only invoked when the
// decision depends on property ownership.
type OwnerResolver func(ctx context.Context, propertyID uuid.UUID) (uuid.UUID, error)

// CanCreate reports whether the actor may book rooms.
func CanCreate(a Actor) bool {
	return a.Role == auth.RoleTenant
}

// AuthorizeTransition decides whether the actor may move b to the requested status.
//
//	cancelled                     booking tenant, property owner, admin
//	approved, rejected, completed property owner, admin
func AuthorizeTransition(ctx context.Context, a Actor, requested BookingStatus, b *Booking, ownerOf OwnerResolver) error {
	if a.IsAdmin() {
		return nil
	}
	if requested == StatusCancelled && a.Role == auth.RoleTenant && b.IsTenant(a.ID) {
		return nil
	}
	if a.Role != auth.RoleOwner {
		return domain.NewForbiddenError("not authorized to set booking status to " + requested.String())
	}
	return requireOwner(ctx, a, b, ownerOf)
}

// AuthorizeView decides whether the actor may read b.
func AuthorizeView(ctx context.Context, a Actor, b *Booking, ownerOf OwnerResolver) error {
	switch a.Role {
	case auth.RoleAdmin:
		return nil
	case auth.RoleTenant:
		if b.IsTenant(a.ID) {
			return nil
		}
		return domain.NewForbiddenError("not authorized to view this booking")
	case auth.RoleOwner:
		return requireOwner(ctx, a, b, ownerOf)
	}
	return domain.NewForbiddenError("not authorized to view this booking")
}

func requireOwner(ctx context.Context, a Actor, b *Booking, ownerOf OwnerResolver) error {
	ownerID, err := ownerOf(ctx, b.PropertyID())
	if err != nil {
		return err
	}
	if ownerID != a.ID {
		return domain.NewForbiddenError("you do not own this property")
	}
	return nil
}
