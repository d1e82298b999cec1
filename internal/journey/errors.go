package journey

import (
	"github.com/adermis/adermis/internal/errors"
)

// Error taxonomy for the scan journey and consultation flows. Every
// user-initiated action maps its failure to one of these so that pages can
// show a recoverable notice instead of conflating distinct failure modes.
var (
	// ErrInputMissing means the user has to provide input first; no call was made.
	ErrInputMissing = errors.NewSentinel("image or description required")
	// ErrInputInvalid means the provided input was rejected by validation.
	ErrInputInvalid = errors.NewSentinel("invalid input")
	// ErrNetworkFailure means a call was made but no usable response came back. Retryable.
	ErrNetworkFailure = errors.NewSentinel("backend request failed")
	// ErrEmptyResult means the call succeeded but returned nothing usable.
	// Distinct from ErrNetworkFailure and never treated as success.
	ErrEmptyResult = errors.NewSentinel("backend returned no result")
	// ErrPermissionDenied means the browser denied a device permission. The user can retry.
	ErrPermissionDenied = errors.NewSentinel("permission denied")
	// ErrPreconditionFailed means an action was attempted out of sequence.
	ErrPreconditionFailed = errors.NewSentinel("earlier journey step not completed")
	// ErrFollowUpFailed means the follow-up submission failed; prior state is untouched.
	ErrFollowUpFailed = errors.NewSentinel("follow-up submission failed")
)
