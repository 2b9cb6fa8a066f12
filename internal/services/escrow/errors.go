package escrow

import apperrors "campusrent/internal/errors"

var (
	ErrInvalidEscrow          = apperrors.New(apperrors.KindInvalidInput, "INVALID_ESCROW", "invalid escrow request")
	ErrEscrowNotFound         = apperrors.New(apperrors.KindNotFound, "ESCROW_NOT_FOUND", "escrow transaction not found")
	ErrEscrowExists           = apperrors.New(apperrors.KindConflict, "ESCROW_EXISTS", "escrow transaction already exists")
	ErrEscrowDisputed         = apperrors.New(apperrors.KindConflict, "ESCROW_DISPUTED", "escrow has an open dispute and can only be settled by its resolution")
	ErrInvalidStateTransition = apperrors.New(apperrors.KindInvalidState, "INVALID_STATE_TRANSITION", "invalid escrow state transition")
	ErrPaymentCaptureFailed   = apperrors.New(apperrors.KindPaymentFailed, "PAYMENT_CAPTURE_FAILED", "payment capture failed")
	ErrSettlementFailed       = apperrors.New(apperrors.KindPaymentFailed, "SETTLEMENT_FAILED", "payment settlement failed")
)
