package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict marks an invariant violation on the current state of an aggregate.
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStaleWrite is returned by a store when a version-guarded update lost to another writer.
	ErrStaleWrite = errors.New("stale write")
)

var (
	ErrHouseNotFound   = fmt.Errorf("%w: house not found", ErrNotFound)
	ErrRequestNotFound = fmt.Errorf("%w: booking request not found", ErrNotFound)
	ErrTicketNotFound  = fmt.Errorf("%w: maintenance ticket not found", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrNotResident     = fmt.Errorf("%w: renter is not seated in any house", ErrNotFound)

	ErrHouseOccupied    = fmt.Errorf("%w: house is already occupied", ErrConflict)
	ErrDuplicateRequest = fmt.Errorf("%w: request already sent", ErrConflict)
	ErrAlreadyResident  = fmt.Errorf("%w: renter is already a resident in another house and must vacate first", ErrConflict)
	ErrNoTenant         = fmt.Errorf("%w: no tenant to edit", ErrConflict)
	ErrEmailTaken       = fmt.Errorf("%w: email already registered", ErrConflict)

	ErrNotHouseOwner  = fmt.Errorf("%w: caller does not own this house", ErrForbidden)
	ErrCannotVacate   = fmt.Errorf("%w: not authorized to vacate this house", ErrForbidden)
	ErrOwnRequest     = fmt.Errorf("%w: owners cannot request their own house", ErrForbidden)
	ErrOwnerRoleOnly  = fmt.Errorf("%w: only owners can list houses", ErrForbidden)
	ErrTicketReadOnly = fmt.Errorf("%w: caller cannot update this ticket", ErrForbidden)
)
