package withdrawal

import "errors"

var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidCurrency    = errors.New("currency must be a three-letter code")
	ErrInsufficientFunds  = errors.New("amount exceeds available balance")
	ErrNotFound           = errors.New("withdrawal request not found")
	ErrInvalidTransition  = errors.New("withdrawal request is no longer pending")
	ErrSellerNotFound     = errors.New("seller not found")
	ErrSellerBanned       = errors.New("banned sellers cannot withdraw")
	ErrInvalidStatusQuery = errors.New("unknown withdrawal status")
)
