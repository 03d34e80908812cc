package service

import "errors"

// Sentinel errors returned by the services.  Handlers translate them into
// HTTP statuses with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrGroundNotFound     = errors.New("ground not found")
	ErrGroundInactive     = errors.New("ground is not accepting bookings")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrSlotUnavailable    = errors.New("slot is not available")
	ErrBookingCancelled   = errors.New("booking is cancelled")
	ErrAlreadyVerified    = errors.New("payment already verified")
	ErrConflict           = errors.New("ground has upcoming bookings")
)
