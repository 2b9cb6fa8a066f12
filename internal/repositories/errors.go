package repositories

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrEscrowNotFound    = errors.New("escrow transaction not found")
	ErrEscrowExists      = errors.New("escrow transaction already exists")
	ErrDisputeNotFound   = errors.New("dispute not found")
	ErrDatabaseOperation = errors.New("database operation failed")
)
