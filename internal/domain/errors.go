package domain

import "errors"

var (
	ErrInvalidAmount           = errors.New("amount must be greater than zero")
	ErrInsufficientFunds       = errors.New("insufficient available funds")
	ErrWalletNotFound          = errors.New("wallet not found")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrVariationNotFound       = errors.New("product variation not found")
	ErrShipmentNotFound        = errors.New("shipment not found")
	ErrInvalidReservationState = errors.New("reservation is not RESERVED")
	ErrOrderAlreadyCancelled   = errors.New("order is already cancelled")
	ErrWebhookAuthFailed       = errors.New("webhook authentication failed")
	ErrLedgerMismatch          = errors.New("ledger does not match stored locked balance")
	ErrVersionConflict         = errors.New("document was modified concurrently")
)
