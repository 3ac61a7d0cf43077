package frost

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents the category of FROST error
type ErrorCategory string

const (
	ErrorCategoryValidation    ErrorCategory = "validation"
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	ErrorCategoryThreshold     ErrorCategory = "threshold"
	ErrorCategoryParticipant   ErrorCategory = "participant"
	ErrorCategoryCryptographic ErrorCategory = "cryptographic"
	ErrorCategoryEncoding      ErrorCategory = "encoding"
	ErrorCategoryKeyGeneration ErrorCategory = "key_generation"
	ErrorCategorySigning       ErrorCategory = "signing"
	ErrorCategoryInternal      ErrorCategory = "internal"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	ErrorSeverityLow      ErrorSeverity = "low"      // Non-critical, operation can continue
	ErrorSeverityMedium   ErrorSeverity = "medium"   // Important, may affect functionality
	ErrorSeverityHigh     ErrorSeverity = "high"     // Critical, operation should stop
	ErrorSeverityCritical ErrorSeverity = "critical" // System-level failure
)

// FROSTError represents a structured error in the FROST library.
//
// Errors that blame a specific participant (invalid proof, share mismatch,
// invalid signature share) carry that participant's identifier so the caller
// can exclude it and retry with a different quorum.
type FROSTError struct {
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Participant Identifier             `json:"participant,omitempty"`
	Cause       error                  `json:"-"` // Original error, not serialized
	Context     map[string]interface{} `json:"context,omitempty"`
	Recoverable bool                   `json:"recoverable"`
}

// Error implements the error interface
func (e *FROSTError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
	if !e.Participant.IsZero() {
		msg += fmt.Sprintf(" (participant %s)", e.Participant)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *FROSTError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a FROSTError with the same code, so that a
// copy enriched with a participant or details still matches its sentinel.
func (e *FROSTError) Is(target error) bool {
	t, ok := target.(*FROSTError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// clone returns a copy to avoid mutating shared sentinels.
func (e *FROSTError) clone() *FROSTError {
	newError := *e
	newError.Context = make(map[string]interface{}, len(e.Context))
	for k, v := range e.Context {
		newError.Context[k] = v
	}
	return &newError
}

// WithContext adds context information to the error
func (e *FROSTError) WithContext(key string, value interface{}) *FROSTError {
	newError := e.clone()
	newError.Context[key] = value
	return newError
}

// WithCause sets the underlying cause of the error
func (e *FROSTError) WithCause(cause error) *FROSTError {
	newError := e.clone()
	newError.Cause = cause
	return newError
}

// WithDetails attaches a human readable detail string.
func (e *FROSTError) WithDetails(details string) *FROSTError {
	newError := e.clone()
	newError.Details = details
	return newError
}

// WithParticipant names the participant responsible for the error.
func (e *FROSTError) WithParticipant(id Identifier) *FROSTError {
	newError := e.clone()
	newError.Participant = id
	return newError
}

// IsRecoverable returns whether the error is recoverable
func (e *FROSTError) IsRecoverable() bool {
	return e.Recoverable
}

// NewFROSTError creates a new FROST error
func NewFROSTError(category ErrorCategory, severity ErrorSeverity, code, message string) *FROSTError {
	return &FROSTError{
		Category:    category,
		Severity:    severity,
		Code:        code,
		Message:     message,
		Context:     make(map[string]interface{}),
		Recoverable: severity != ErrorSeverityCritical,
	}
}

// Encoding and arithmetic errors
var (
	ErrInvalidScalar = NewFROSTError(
		ErrorCategoryCryptographic, ErrorSeverityHigh, "INVALID_SCALAR",
		"scalar is invalid for this operation")

	ErrInvalidEncoding = NewFROSTError(
		ErrorCategoryEncoding, ErrorSeverityHigh, "INVALID_ENCODING",
		"encoding does not represent a valid group element")

	ErrCiphersuiteMismatch = NewFROSTError(
		ErrorCategoryConfiguration, ErrorSeverityHigh, "CIPHERSUITE_MISMATCH",
		"ciphersuite is unsupported or does not match")
)

// Threshold and participant errors
var (
	ErrInvalidThreshold = NewFROSTError(
		ErrorCategoryThreshold, ErrorSeverityHigh, "INVALID_THRESHOLD",
		"threshold value is invalid")

	ErrThresholdNotMet = NewFROSTError(
		ErrorCategoryThreshold, ErrorSeverityMedium, "THRESHOLD_NOT_MET",
		"fewer participants than the signing threshold")

	ErrTooManySigners = NewFROSTError(
		ErrorCategoryThreshold, ErrorSeverityMedium, "TOO_MANY_SIGNERS",
		"more signers than the signing threshold")

	ErrUnknownIdentifier = NewFROSTError(
		ErrorCategoryParticipant, ErrorSeverityMedium, "UNKNOWN_IDENTIFIER",
		"identifier is not part of the participant set")

	ErrDuplicateParticipant = NewFROSTError(
		ErrorCategoryParticipant, ErrorSeverityMedium, "DUPLICATE_PARTICIPANT",
		"duplicate participant identifier")

	ErrParticipantNotFound = NewFROSTError(
		ErrorCategoryParticipant, ErrorSeverityMedium, "PARTICIPANT_NOT_FOUND",
		"participant not found in the supplied set")
)

// Key generation errors
var (
	ErrInvalidProof = NewFROSTError(
		ErrorCategoryKeyGeneration, ErrorSeverityHigh, "INVALID_PROOF",
		"proof of knowledge did not verify")

	ErrShareMismatch = NewFROSTError(
		ErrorCategoryKeyGeneration, ErrorSeverityHigh, "SHARE_MISMATCH",
		"secret share does not match its commitment")
)

// Signing errors
var (
	ErrNonceReuse = NewFROSTError(
		ErrorCategorySigning, ErrorSeverityCritical, "NONCE_REUSE",
		"signing nonces used more than once")

	ErrStaleNonces = NewFROSTError(
		ErrorCategorySigning, ErrorSeverityHigh, "STALE_NONCES",
		"signing nonces were already consumed")

	ErrInvalidCommitment = NewFROSTError(
		ErrorCategorySigning, ErrorSeverityHigh, "INVALID_COMMITMENT",
		"signing commitment does not match the signer's nonces")

	ErrInvalidShare = NewFROSTError(
		ErrorCategorySigning, ErrorSeverityHigh, "INVALID_SHARE",
		"signature share did not verify")

	ErrVerificationFailed = NewFROSTError(
		ErrorCategorySigning, ErrorSeverityHigh, "VERIFICATION_FAILED",
		"signature verification failed")
)

// Cryptographic and internal errors
var (
	ErrRandomnessGeneration = NewFROSTError(
		ErrorCategoryCryptographic, ErrorSeverityCritical, "RANDOMNESS_GENERATION_FAILED",
		"failed to generate secure randomness")

	ErrHashComputation = NewFROSTError(
		ErrorCategoryCryptographic, ErrorSeverityHigh, "HASH_COMPUTATION_FAILED",
		"hash computation failed")

	ErrInvalidState = NewFROSTError(
		ErrorCategoryInternal, ErrorSeverityHigh, "INVALID_STATE",
		"operation not valid in the current state")
)

// Error helper functions

// WrapError wraps an existing error with FROST error context
func WrapError(err error, category ErrorCategory, severity ErrorSeverity, code, message string) *FROSTError {
	return NewFROSTError(category, severity, code, message).WithCause(err)
}

// Culprit returns the participant blamed by err, if any.
func Culprit(err error) (Identifier, bool) {
	var frostErr *FROSTError
	if errors.As(err, &frostErr) && !frostErr.Participant.IsZero() {
		return frostErr.Participant, true
	}
	return Identifier{}, false
}

// IsErrorCategory checks if an error belongs to a specific category
func IsErrorCategory(err error, category ErrorCategory) bool {
	var frostErr *FROSTError
	if errors.As(err, &frostErr) {
		return frostErr.Category == category
	}
	return false
}

// IsErrorSeverity checks if an error has a specific severity
func IsErrorSeverity(err error, severity ErrorSeverity) bool {
	var frostErr *FROSTError
	if errors.As(err, &frostErr) {
		return frostErr.Severity == severity
	}
	return false
}

// IsRecoverableError checks if an error is recoverable
func IsRecoverableError(err error) bool {
	var frostErr *FROSTError
	if errors.As(err, &frostErr) {
		return frostErr.IsRecoverable()
	}
	return true // Non-FROST errors are assumed recoverable
}

// GetErrorContext extracts context from a FROST error
func GetErrorContext(err error) map[string]interface{} {
	var frostErr *FROSTError
	if errors.As(err, &frostErr) {
		return frostErr.Context
	}
	return nil
}
