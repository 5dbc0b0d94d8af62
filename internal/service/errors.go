package service

import "errors"

var (
	// ErrDuplicateTransaction means a ledger entry already exists for the
	// origin. Callers treat it as an idempotent no-op and reuse the entry.
	ErrDuplicateTransaction = errors.New("transaction already recorded for this origin")

	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrConcurrentUpdate means a ledger write lost a race; it is retried
	// once with fresh state before surfacing.
	ErrConcurrentUpdate = errors.New("concurrent ledger update conflict")

	ErrInvalidPeriod = errors.New("period end must be after period start")

	ErrDonationNotCompleted = errors.New("donation is not completed")
	ErrDonationFailed       = errors.New("donation has failed and cannot be completed")
)
