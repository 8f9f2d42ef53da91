package types

import (
	"errors"
	"fmt"
)

// TokenError is the library-level error carrying a stable string code next
// to a human readable message. The plugin layer maps codes onto the host
// SDK's numeric enum; everything below that layer deals in TokenError.
type TokenError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e TokenError) Error() string {
	return e.Message
}

// Error codes shared across the library.
const (
	ErrInvalidStructure  = "INVALID_STRUCTURE"
	ErrInvalidAddress    = "INVALID_ADDRESS"
	ErrInvalidEncoding   = "INVALID_ENCODING"
	ErrChecksumMismatch  = "CHECKSUM_MISMATCH"
	ErrContractViolation = "CONTRACT_VIOLATION"
	ErrHostError         = "HOST_ERROR"
)

// InvalidStructure builds an INVALID_STRUCTURE error with a formatted
// message.
func InvalidStructure(format string, args ...interface{}) error {
	return &TokenError{
		Code:    ErrInvalidStructure,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidAddress builds an INVALID_ADDRESS error with a formatted message.
func InvalidAddress(format string, args ...interface{}) error {
	return &TokenError{
		Code:    ErrInvalidAddress,
		Message: fmt.Sprintf(format, args...),
	}
}

// HostError wraps an error reason reported by the ledger or the host SDK,
// passed through verbatim.
func HostError(reason string) error {
	return &TokenError{
		Code:    ErrHostError,
		Message: reason,
	}
}

// ErrorCodeOf extracts the TokenError code from err, or empty when err is
// not a TokenError.
func ErrorCodeOf(err error) string {
	var te *TokenError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
