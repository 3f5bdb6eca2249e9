// Package error defines domain-specific errors for the clinic finance backend.
package error

import "errors"

// External feed errors. Both are recovered by the ledger loader, which then
// continues with local data only.
var (
	// ErrExternalFeedAccessDenied is returned when the clinical system refuses the read.
	ErrExternalFeedAccessDenied = errors.New("external feed access denied")

	// ErrExternalFeedUnavailable is returned when the clinical system cannot be reached or queried.
	ErrExternalFeedUnavailable = errors.New("external feed unavailable")

	// ErrLocalLedgerUnavailable is returned when the local ledger cannot be read.
	ErrLocalLedgerUnavailable = errors.New("local ledger unavailable")
)
