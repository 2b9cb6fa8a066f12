package deposit

import apperrors "campusrent/internal/errors"

var (
	ErrInvalidBaseDeposit = apperrors.New(apperrors.KindInvalidInput, "INVALID_BASE_DEPOSIT", "base deposit must be non-negative with at most two decimal places")
	ErrInvalidTrustScore  = apperrors.New(apperrors.KindInvalidInput, "INVALID_TRUST_SCORE", "trust score must be between 0 and 1000")
	ErrInvalidProfile     = apperrors.New(apperrors.KindInvalidInput, "INVALID_PROFILE", "invalid user profile")
	ErrInvalidItem        = apperrors.New(apperrors.KindInvalidInput, "INVALID_ITEM", "invalid item details")
	ErrRenterNotFound     = apperrors.New(apperrors.KindNotFound, "RENTER_NOT_FOUND", "renter not found")
)
