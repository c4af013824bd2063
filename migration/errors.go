package migration

import "errors"

// Error categories. Every error returned by this package wraps exactly one.
var (
	ErrParse              = errors.New("parse error")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrIO                 = errors.New("io error")
)

// Specific causes, wrapped together with their category
var (
	ErrMissingField            = errors.New("missing field")
	ErrInvalidDecimal          = errors.New("invalid decimal")
	ErrZeroShares              = errors.New("validator has zero delegator shares")
	ErrDuplicateValidator      = errors.New("duplicate validator")
	ErrUnknownValidator        = errors.New("delegation to unknown validator")
	ErrModuleAccountDelegation = errors.New("module account delegates")
	ErrAllocationExists        = errors.New("address already has an allocation")
	ErrBaseAccountMissing      = errors.New("base account has no allocation")
	ErrAmountTooLarge          = errors.New("amount exceeds 128 bits")
	ErrNonReproducibleOutput   = errors.New("output differs from a previous run with identical inputs")
	ErrInvalidParams           = errors.New("invalid migration parameters")
)

// Process exit codes, one per error category
const (
	ExitOK                 = 0
	ExitFailure            = 1
	ExitParseError         = 2
	ExitArithmeticOverflow = 3
	ExitInvariantViolation = 4
	ExitIOError            = 5
)

// ExitCode maps an error returned by the migration to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrArithmeticOverflow):
		return ExitArithmeticOverflow
	case errors.Is(err, ErrInvariantViolation):
		return ExitInvariantViolation
	case errors.Is(err, ErrIO):
		return ExitIOError
	default:
		return ExitFailure
	}
}
