package fee

import apperrors "campusrent/internal/errors"

var (
	ErrInvalidAmount  = apperrors.New(apperrors.KindInvalidInput, "INVALID_AMOUNT", "rental amount must not be negative")
	ErrInvalidHistory = apperrors.New(apperrors.KindInvalidInput, "INVALID_HISTORY", "completed rentals must not be negative")
	ErrRenterNotFound = apperrors.New(apperrors.KindNotFound, "RENTER_NOT_FOUND", "renter not found")
)
