package dispute

import apperrors "campusrent/internal/errors"

var (
	ErrDisputeNotFound   = apperrors.New(apperrors.KindNotFound, "DISPUTE_NOT_FOUND", "dispute not found")
	ErrReasonRequired    = apperrors.New(apperrors.KindInvalidInput, "REASON_REQUIRED", "a reason is required")
	ErrInvalidEvidence   = apperrors.New(apperrors.KindInvalidInput, "INVALID_EVIDENCE", "evidence must be up to 10 http(s) URLs")
	ErrInvalidResolution = apperrors.New(apperrors.KindInvalidInput, "INVALID_RESOLUTION", "resolution must be refund_renter or release_vendor")
	ErrNotParty          = apperrors.New(apperrors.KindForbidden, "NOT_A_PARTY", "user is not a party to this escrow")
	ErrEscrowNotHeld     = apperrors.New(apperrors.KindInvalidState, "ESCROW_NOT_HELD", "disputes can only be filed while funds are held")
	ErrDisputeExists     = apperrors.New(apperrors.KindConflict, "DISPUTE_EXISTS", "an open dispute already exists for this escrow")
	ErrDisputeNotOpen    = apperrors.New(apperrors.KindInvalidState, "DISPUTE_NOT_OPEN", "dispute is already resolved")
)
